package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.abhg.dev/gs/internal/forge"
	"go.abhg.dev/gs/internal/reconcile"
	"go.abhg.dev/gs/internal/revup"
)

func tb(topic, base string) *revup.TopicBranch {
	return &revup.TopicBranch{Topic: &revup.Topic{Name: topic}, Base: base, Name: topic + "@" + base}
}

type fakeLogger struct {
	infos, warns, errors []string
}

func (f *fakeLogger) Infof(format string, args ...any)  { f.infos = append(f.infos, sprintf(format, args)) }
func (f *fakeLogger) Warnf(format string, args ...any)  { f.warns = append(f.warns, sprintf(format, args)) }
func (f *fakeLogger) Errorf(format string, args ...any) { f.errors = append(f.errors, sprintf(format, args)) }

func sprintf(format string, args []any) string {
	return format // exact text isn't load-bearing for these tests
}

type fakeLauncher struct {
	opened []string
	err    error
}

func (f *fakeLauncher) OpenURL(url string) error {
	f.opened = append(f.opened, url)
	return f.err
}

func TestPrintPlan(t *testing.T) {
	a := tb("feature", "main")
	a.ParentRef = "main"
	a.Head = "aaa"

	log := &fakeLogger{}
	printPlan(log, &revup.UploadPlan{
		Items: []*revup.PlanItem{{Branch: a, State: revup.StateNew}},
	})

	require.Len(t, log.infos, 1)
}

func TestPrintResults_OpensBrowserOnCreateAndUpdate(t *testing.T) {
	created := tb("a", "main")
	updated := tb("b", "main")
	unchanged := tb("c", "main")
	deferred := tb("d", "main")

	log := &fakeLogger{}
	launcher := &fakeLauncher{}

	err := printResults(log, launcher, []*reconcile.BranchResult{
		{Branch: created, Action: reconcile.ActionCreated, Change: &forge.FindChangeItem{URL: "https://example.com/1"}},
		{Branch: updated, Action: reconcile.ActionUpdated, Change: &forge.FindChangeItem{URL: "https://example.com/2"}},
		{Branch: unchanged, Action: reconcile.ActionNone},
		{Branch: deferred, Action: reconcile.ActionDeferred},
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"https://example.com/1", "https://example.com/2"}, launcher.opened)
	assert.Len(t, log.warns, 1, "the deferred branch should warn")
}

func TestPrintResults_JoinsErrors(t *testing.T) {
	a := tb("a", "main")
	b := tb("b", "main")

	boom1 := errors.New("boom1")
	boom2 := errors.New("boom2")

	log := &fakeLogger{}
	err := printResults(log, &fakeLauncher{}, []*reconcile.BranchResult{
		{Branch: a, Err: boom1},
		{Branch: b, Err: boom2},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom1)
	assert.ErrorIs(t, err, boom2)
}
