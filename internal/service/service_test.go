package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finplan/advisor-service/internal/catalog"
	"github.com/finplan/advisor-service/internal/config"
	"github.com/finplan/advisor-service/internal/handoff"
	"github.com/finplan/advisor-service/internal/models"
	"github.com/finplan/advisor-service/internal/planner"
	"github.com/finplan/advisor-service/internal/profile"
	"github.com/finplan/advisor-service/internal/report"
)

func newTestService(t *testing.T, engineURL string) *Service {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	cat, err := catalog.Load()
	require.NoError(t, err)

	cfg := &config.Config{PlannerURL: engineURL, PlannerAPIKey: "test-key"}
	return NewService(
		profile.NewStore(time.Minute, log),
		handoff.NewStore(30*time.Millisecond, time.Minute, log),
		planner.NewClient(cfg, log),
		cat,
		report.NewMailer(cfg, log),
		log,
	)
}

func engineStub(calls *atomic.Int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}
		json.NewEncoder(w).Encode(models.PlanResponse{
			Success: true,
			AssetAllocations: []models.AssetAllocation{
				{Name: "large_cap_equity", Amount: 600000, Currency: "INR", Percentage: 60},
				{Name: "debt", Amount: 400000, Currency: "INR", Percentage: 40},
			},
		})
	}
}

func setClient(t *testing.T, svc *Service, sessionID string) {
	t.Helper()
	_, err := svc.SetClient(sessionID, models.ClientInfo{Name: "Ravi Kumar", Email: "ravi@example.com"})
	require.NoError(t, err)
}

func TestGeneratePlanRequiresClientInfo(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(engineStub(&calls))
	defer srv.Close()
	svc := newTestService(t, srv.URL)

	_, err := svc.GeneratePlan(context.Background(), "sess-1")

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Zero(t, calls.Load(), "nothing reaches the engine when validation fails")
}

func TestGeneratePlanWhitespaceClientFails(t *testing.T) {
	srv := httptest.NewServer(engineStub(nil))
	defer srv.Close()
	svc := newTestService(t, srv.URL)

	_, err := svc.SetClient("sess-1", models.ClientInfo{Name: "   ", Email: "ravi@example.com"})
	require.NoError(t, err)

	_, err = svc.GeneratePlan(context.Background(), "sess-1")
	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestGenerateThenResults(t *testing.T) {
	srv := httptest.NewServer(engineStub(nil))
	defer srv.Close()
	svc := newTestService(t, srv.URL)
	setClient(t, svc, "sess-1")

	plan, err := svc.GeneratePlan(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.True(t, plan.Success)

	results, err := svc.Results("sess-1")
	require.NoError(t, err)
	assert.Equal(t, "Ravi Kumar", results.Client.Name)
	require.Len(t, results.Allocations, 2)
	assert.Equal(t, "Large Cap Equity", results.Allocations[0].Name)
	assert.InDelta(t, 1000000, results.TotalAmount, 0.001)

	// Once the grace window closes the plan is gone.
	time.Sleep(100 * time.Millisecond)
	_, err = svc.Results("sess-1")
	assert.ErrorIs(t, err, handoff.ErrEmptyHandoff)
}

func TestResultsWithoutPlan(t *testing.T) {
	srv := httptest.NewServer(engineStub(nil))
	defer srv.Close()
	svc := newTestService(t, srv.URL)

	_, err := svc.Results("sess-1")
	assert.ErrorIs(t, err, handoff.ErrEmptyHandoff)
}

func TestGeneratePlanRejectsConcurrentDuplicate(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var once atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if once.CompareAndSwap(false, true) {
			close(entered)
		}
		<-release
		engineStub(nil)(w, r)
	}))
	defer srv.Close()

	svc := newTestService(t, srv.URL)
	setClient(t, svc, "sess-1")

	firstDone := make(chan error, 1)
	go func() {
		_, err := svc.GeneratePlan(context.Background(), "sess-1")
		firstDone <- err
	}()

	<-entered
	_, err := svc.GeneratePlan(context.Background(), "sess-1")
	assert.ErrorIs(t, err, ErrPlanInFlight)

	close(release)
	require.NoError(t, <-firstDone)

	// The guard is released after completion; a fresh submission works.
	_, err = svc.GeneratePlan(context.Background(), "sess-1")
	assert.NoError(t, err)
}

func TestGeneratePlanReleasesGuardOnFailure(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer failing.Close()

	svc := newTestService(t, failing.URL)
	setClient(t, svc, "sess-1")

	_, err := svc.GeneratePlan(context.Background(), "sess-1")
	var failed *planner.RequestFailedError
	require.ErrorAs(t, err, &failed)

	// Guard must not leak after an engine failure.
	_, err = svc.GeneratePlan(context.Background(), "sess-1")
	assert.ErrorAs(t, err, &failed)
	assert.NotErrorIs(t, err, ErrPlanInFlight)
}

func TestGeneratePlanGuardsPerSession(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var once atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if once.CompareAndSwap(false, true) {
			close(entered)
			<-release
		}
		engineStub(nil)(w, r)
	}))
	defer srv.Close()

	svc := newTestService(t, srv.URL)
	setClient(t, svc, "sess-1")
	setClient(t, svc, "sess-2")

	done := make(chan error, 1)
	go func() {
		_, err := svc.GeneratePlan(context.Background(), "sess-1")
		done <- err
	}()

	<-entered
	_, err := svc.GeneratePlan(context.Background(), "sess-2")
	assert.NoError(t, err, "another session is not blocked")

	close(release)
	require.NoError(t, <-done)
}

func TestSelectPersonaUnknownTag(t *testing.T) {
	srv := httptest.NewServer(engineStub(nil))
	defer srv.Close()
	svc := newTestService(t, srv.URL)

	_, err := svc.SelectPersona("sess-1", "no_such_persona")
	assert.ErrorIs(t, err, ErrUnknownPersona)
}

func TestSelectPersonaStateTransitions(t *testing.T) {
	srv := httptest.NewServer(engineStub(nil))
	defer srv.Close()
	svc := newTestService(t, srv.URL)

	state, err := svc.SelectPersona("sess-1", "steady_saver")
	require.NoError(t, err)
	assert.Equal(t, "persona", state.Selection)
	assert.Equal(t, "steady_saver", state.SelectionTag)
	assert.Nil(t, state.Pending)
	assert.Positive(t, state.Draft.Age)

	// Switching to another persona over existing data stages the change.
	state, err = svc.SelectPersona("sess-1", "golden_years")
	require.NoError(t, err)
	require.NotNil(t, state.Pending)
	assert.Equal(t, "golden_years", state.Pending.Tag)
	assert.Equal(t, "steady_saver", state.SelectionTag, "still on the old persona")

	state, err = svc.ResolvePending("sess-1", true)
	require.NoError(t, err)
	assert.Equal(t, "persona", state.Selection)
	assert.Equal(t, "golden_years", state.SelectionTag)
	assert.Nil(t, state.Pending)
}

func TestSetFieldDetachesSelection(t *testing.T) {
	srv := httptest.NewServer(engineStub(nil))
	defer srv.Close()
	svc := newTestService(t, srv.URL)

	_, err := svc.SelectPersona("sess-1", "steady_saver")
	require.NoError(t, err)

	state, err := svc.SetField("sess-1", "age", float64(48))
	require.NoError(t, err)
	assert.Equal(t, "custom", state.Selection)
	assert.Equal(t, "steady_saver", state.SelectionTag)
	assert.Equal(t, 48, state.Draft.Age)
}

func TestBuildReportWithoutPlan(t *testing.T) {
	srv := httptest.NewServer(engineStub(nil))
	defer srv.Close()
	svc := newTestService(t, srv.URL)

	filename, pdf, err := svc.BuildReport("sess-1", nil, models.ClientInfo{Name: "Ravi", Email: "r@x.com"})

	require.NoError(t, err)
	assert.Regexp(t, `^asset-allocation-report-\d+\.pdf$`, filename)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestEmailReportUnconfigured(t *testing.T) {
	srv := httptest.NewServer(engineStub(nil))
	defer srv.Close()
	svc := newTestService(t, srv.URL)

	err := svc.EmailReport("sess-1", nil, models.ClientInfo{Name: "Ravi", Email: "r@x.com"})
	assert.ErrorIs(t, err, ErrMailNotConfigured)
}
