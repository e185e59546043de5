package schedule

import (
	"time"

	"github.com/fadecraft/barbershop-api/internal/httperr"
)

// ===============================
// Booking wizard
// ===============================

// The multi-step booking flow is a finite state machine. Each step has an
// entry guard over the accumulated selection, so a client can never reach
// confirmation with an incomplete booking.

type WizardStep string

const (
	StepSelectService  WizardStep = "select_service"
	StepSelectBarber   WizardStep = "select_barber"
	StepSelectDateTime WizardStep = "select_datetime"
	StepConfirm        WizardStep = "confirm"
	StepDone           WizardStep = "done"
)

// WizardSelection accumulates the client's choices across steps.
type WizardSelection struct {
	ServiceID uint      `json:"service_id"`
	BarberID  uint      `json:"barber_id"`
	Start     time.Time `json:"start"`
}

type wizardTransition struct {
	next  WizardStep
	prev  WizardStep
	guard func(WizardSelection) error
}

// wizardTable is the full transition table. guard is the entry condition of
// the step named by next.
var wizardTable = map[WizardStep]wizardTransition{
	StepSelectService: {
		next: StepSelectBarber,
		guard: func(s WizardSelection) error {
			if s.ServiceID == 0 {
				return httperr.ErrBusiness("service_not_selected", "Choose a service first.")
			}
			return nil
		},
	},
	StepSelectBarber: {
		next: StepSelectDateTime,
		prev: StepSelectService,
		guard: func(s WizardSelection) error {
			if s.BarberID == 0 {
				return httperr.ErrBusiness("barber_not_selected", "Choose a barber first.")
			}
			return nil
		},
	},
	StepSelectDateTime: {
		next: StepConfirm,
		prev: StepSelectBarber,
		guard: func(s WizardSelection) error {
			if s.Start.IsZero() {
				return httperr.ErrBusiness("datetime_not_selected", "Choose a date and time first.")
			}
			return nil
		},
	},
	StepConfirm: {
		next: StepDone,
		prev: StepSelectDateTime,
		guard: func(s WizardSelection) error {
			if s.ServiceID == 0 || s.BarberID == 0 || s.Start.IsZero() {
				return httperr.ErrBusiness("selection_incomplete", "Booking selection is incomplete.")
			}
			return nil
		},
	},
	StepDone: {},
}

type Wizard struct {
	step      WizardStep
	selection WizardSelection
}

func NewWizard() *Wizard {
	return &Wizard{step: StepSelectService}
}

// ResumeWizard rebuilds a wizard at an arbitrary step, re-validating that the
// selection actually permits being there.
func ResumeWizard(step WizardStep, sel WizardSelection) (*Wizard, error) {
	cur := StepSelectService
	w := &Wizard{step: cur, selection: sel}
	for cur != step {
		if err := w.Next(); err != nil {
			return nil, err
		}
		if w.step == cur {
			return nil, httperr.ErrBusiness("invalid_step", "Unknown wizard step.")
		}
		cur = w.step
	}
	return w, nil
}

func (w *Wizard) Step() WizardStep           { return w.step }
func (w *Wizard) Selection() WizardSelection { return w.selection }

// Next advances to the following step if its entry guard passes.
func (w *Wizard) Next() error {
	t, ok := wizardTable[w.step]
	if !ok || t.next == "" {
		return httperr.ErrBusiness("wizard_finished", "The booking flow is already complete.")
	}
	if err := t.guard(w.selection); err != nil {
		return err
	}
	w.step = t.next
	return nil
}

// Back returns to the previous step. Selections are kept.
func (w *Wizard) Back() error {
	t, ok := wizardTable[w.step]
	if !ok || t.prev == "" {
		return httperr.ErrBusiness("wizard_at_start", "Already at the first step.")
	}
	w.step = t.prev
	return nil
}

func (w *Wizard) ChooseService(id uint) error {
	if w.step != StepSelectService {
		return httperr.ErrBusiness("wrong_step", "Not selecting a service right now.")
	}
	w.selection.ServiceID = id
	return nil
}

func (w *Wizard) ChooseBarber(id uint) error {
	if w.step != StepSelectBarber {
		return httperr.ErrBusiness("wrong_step", "Not selecting a barber right now.")
	}
	w.selection.BarberID = id
	return nil
}

func (w *Wizard) ChooseStart(t time.Time) error {
	if w.step != StepSelectDateTime {
		return httperr.ErrBusiness("wrong_step", "Not selecting a time right now.")
	}
	w.selection.Start = t
	return nil
}
