package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/finplan/advisor-service/internal/catalog"
	"github.com/finplan/advisor-service/internal/handoff"
	"github.com/finplan/advisor-service/internal/models"
	"github.com/finplan/advisor-service/internal/planner"
	"github.com/finplan/advisor-service/internal/present"
	"github.com/finplan/advisor-service/internal/profile"
	"github.com/finplan/advisor-service/internal/report"
)

// ValidationError reports client input that must be fixed before a plan
// can be submitted. Nothing is sent to the planning engine when one is
// returned.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ErrPlanInFlight rejects a duplicate submission while the session's
// previous one is still running.
var ErrPlanInFlight = errors.New("a plan request is already in progress")

// ErrUnknownPersona means the requested persona tag is not in the catalog.
var ErrUnknownPersona = errors.New("unknown persona")

// ErrMailNotConfigured means the deployment has no SMTP settings, so
// emailed reports are unavailable.
var ErrMailNotConfigured = errors.New("email delivery is not configured")

// Service handles business logic
type Service struct {
	drafts  *profile.Store
	handoff *handoff.Store
	planner *planner.Client
	catalog *catalog.Catalog
	mailer  *report.Mailer
	log     *logrus.Logger

	mu       sync.Mutex
	inFlight map[string]bool
}

// NewService initializes a new service
func NewService(drafts *profile.Store, hs *handoff.Store, pc *planner.Client, cat *catalog.Catalog, mailer *report.Mailer, log *logrus.Logger) *Service {
	return &Service{
		drafts:   drafts,
		handoff:  hs,
		planner:  pc,
		catalog:  cat,
		mailer:   mailer,
		log:      log,
		inFlight: make(map[string]bool),
	}
}

// Personas lists the selectable catalog personas in catalog order.
func (s *Service) Personas() []models.Persona {
	return s.catalog.Personas()
}

// ProfileState is the session's complete form state as the API reports it.
type ProfileState struct {
	Draft        models.ProfileDraft `json:"draft"`
	Selection    string              `json:"selection"`
	SelectionTag string              `json:"selection_tag,omitempty"`
	Pending      *models.Persona     `json:"pending,omitempty"`
	Goals        []models.Goal       `json:"goals"`
	Client       models.ClientInfo   `json:"client"`
}

// Profile returns the session's current form state, creating a blank draft
// on first access.
func (s *Service) Profile(sessionID string) (*ProfileState, error) {
	var state *ProfileState
	err := s.drafts.Update(sessionID, func(m *profile.Model) error {
		state = snapshot(m)
		return nil
	})
	return state, err
}

// SetField updates one draft field and returns the resulting state.
func (s *Service) SetField(sessionID, field string, value any) (*ProfileState, error) {
	var state *ProfileState
	err := s.drafts.Update(sessionID, func(m *profile.Model) error {
		if err := m.SetField(field, value); err != nil {
			return &ValidationError{Message: err.Error()}
		}
		state = snapshot(m)
		return nil
	})
	return state, err
}

// SetClient replaces the client identity on the draft.
func (s *Service) SetClient(sessionID string, client models.ClientInfo) (*ProfileState, error) {
	var state *ProfileState
	err := s.drafts.Update(sessionID, func(m *profile.Model) error {
		m.SetClient(client)
		state = snapshot(m)
		return nil
	})
	return state, err
}

// SelectPersona requests a selection change; an empty tag clears to none.
// When the change would overwrite entered data it is staged instead of
// applied, and the returned state carries the pending persona until the
// client resolves it through ResolvePending.
func (s *Service) SelectPersona(sessionID, tag string) (*ProfileState, error) {
	var p *models.Persona
	if tag != "" {
		found, ok := s.catalog.FindByTag(tag)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPersona, tag)
		}
		p = &found
	}

	var state *ProfileState
	err := s.drafts.Update(sessionID, func(m *profile.Model) error {
		m.SelectPersona(p)
		state = snapshot(m)
		return nil
	})
	return state, err
}

// ResolvePending applies or discards the staged persona switch.
func (s *Service) ResolvePending(sessionID string, accept bool) (*ProfileState, error) {
	var state *ProfileState
	err := s.drafts.Update(sessionID, func(m *profile.Model) error {
		if accept {
			m.ConfirmPending()
		} else {
			m.CancelPending()
		}
		state = snapshot(m)
		return nil
	})
	return state, err
}

// AddGoal appends a blank goal with the form defaults.
func (s *Service) AddGoal(sessionID string) (*ProfileState, error) {
	var state *ProfileState
	err := s.drafts.Update(sessionID, func(m *profile.Model) error {
		m.AddGoal()
		state = snapshot(m)
		return nil
	})
	return state, err
}

// UpdateGoal replaces one field of the goal at the given index.
func (s *Service) UpdateGoal(sessionID string, index int, field string, value any) (*ProfileState, error) {
	var state *ProfileState
	err := s.drafts.Update(sessionID, func(m *profile.Model) error {
		if err := m.UpdateGoal(index, field, value); err != nil {
			return &ValidationError{Message: err.Error()}
		}
		state = snapshot(m)
		return nil
	})
	return state, err
}

// RemoveGoal deletes the goal at the given index.
func (s *Service) RemoveGoal(sessionID string, index int) (*ProfileState, error) {
	var state *ProfileState
	err := s.drafts.Update(sessionID, func(m *profile.Model) error {
		if err := m.RemoveGoal(index); err != nil {
			return &ValidationError{Message: err.Error()}
		}
		state = snapshot(m)
		return nil
	})
	return state, err
}

// GeneratePlan validates the draft, submits it to the planning engine and
// parks the result in the handoff buffer for the results view. Client
// identity is checked before anything leaves the process. One submission
// per session may run at a time; a concurrent duplicate is rejected with
// ErrPlanInFlight.
func (s *Service) GeneratePlan(ctx context.Context, sessionID string) (*models.PlanResponse, error) {
	var (
		req    models.PlanRequest
		client models.ClientInfo
	)
	err := s.drafts.Update(sessionID, func(m *profile.Model) error {
		client = m.Client()
		if !client.Valid() {
			return &ValidationError{Message: "Please fill in your name and email before generating a plan"}
		}
		req = profile.BuildPlanRequest(m.Draft(), m.Goals(), client, m.Selection(), s.catalog)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !s.acquire(sessionID) {
		return nil, ErrPlanInFlight
	}
	defer s.release(sessionID)

	plan, err := s.planner.Submit(ctx, &req)
	if err != nil {
		return nil, err
	}

	if err := s.handoff.Put(sessionID, plan, client); err != nil {
		return nil, err
	}

	s.log.Infof("Plan stored for session %s (%d allocations)", sessionID, len(plan.AssetAllocations))
	return plan, nil
}

// PlanResults is what the results view renders: the raw plan, the client
// it was generated for, and the display-ready allocation rows.
type PlanResults struct {
	Plan        *models.PlanResponse    `json:"plan"`
	Client      models.ClientInfo       `json:"client"`
	Allocations []present.AllocationRow `json:"allocations"`
	TotalAmount float64                 `json:"total_amount"`
}

// Results consumes the session's handoff entry. Missing or unreadable
// entries surface handoff.ErrEmptyHandoff / handoff.ErrMalformedHandoff;
// both mean "nothing to show, generate a plan first".
func (s *Service) Results(sessionID string) (*PlanResults, error) {
	plan, client, err := s.handoff.Take(sessionID)
	if err != nil {
		return nil, err
	}
	return &PlanResults{
		Plan:        plan,
		Client:      *client,
		Allocations: present.Rows(plan.AssetAllocations),
		TotalAmount: present.TotalAmount(plan.AssetAllocations),
	}, nil
}

// BuildReport composes the downloadable PDF from the plan the results view
// holds, enriched with the session's draft and goals when they carry data.
func (s *Service) BuildReport(sessionID string, plan *models.PlanResponse, client models.ClientInfo) (string, []byte, error) {
	params := report.Params{
		ClientName:  client.Name,
		ClientEmail: client.Email,
		Plan:        plan,
	}
	if plan != nil {
		params.Rows = present.Rows(plan.AssetAllocations)
		params.Total = present.TotalAmount(plan.AssetAllocations)
	}

	err := s.drafts.Update(sessionID, func(m *profile.Model) error {
		if m.HasAnyData() {
			d := m.Draft()
			params.Form = &d
		}
		params.Goals = m.Goals()
		return nil
	})
	if err != nil {
		return "", nil, err
	}

	pdf, err := report.Generate(params)
	if err != nil {
		return "", nil, fmt.Errorf("failed to compose report: %w", err)
	}
	return report.Filename(), pdf, nil
}

// EmailReport builds the PDF and mails it to the client's address.
func (s *Service) EmailReport(sessionID string, plan *models.PlanResponse, client models.ClientInfo) error {
	if !s.mailer.Configured() {
		return ErrMailNotConfigured
	}
	if !client.Valid() {
		return &ValidationError{Message: "Client name and email are required to send the report"}
	}

	filename, pdf, err := s.BuildReport(sessionID, plan, client)
	if err != nil {
		return err
	}
	return s.mailer.SendReport(client.Email, client.Name, pdf, filename)
}

func (s *Service) acquire(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[sessionID] {
		return false
	}
	s.inFlight[sessionID] = true
	return true
}

func (s *Service) release(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, sessionID)
}

func snapshot(m *profile.Model) *ProfileState {
	sel := m.Selection()
	return &ProfileState{
		Draft:        m.Draft(),
		Selection:    selectionLabel(sel.Kind),
		SelectionTag: sel.Tag,
		Pending:      m.Pending(),
		Goals:        m.Goals(),
		Client:       m.Client(),
	}
}

func selectionLabel(k profile.SelectionKind) string {
	switch k {
	case profile.SelectionPersona:
		return "persona"
	case profile.SelectionCustom:
		return "custom"
	default:
		return "none"
	}
}
