package schedule

import (
	"testing"
	"time"

	"github.com/fadecraft/barbershop-api/internal/httperr"
)

func TestWizardFullFlow(t *testing.T) {
	w := NewWizard()
	if w.Step() != StepSelectService {
		t.Fatalf("new wizard at %s, want %s", w.Step(), StepSelectService)
	}

	if err := w.ChooseService(3); err != nil {
		t.Fatal(err)
	}
	if err := w.Next(); err != nil {
		t.Fatal(err)
	}
	if err := w.ChooseBarber(2); err != nil {
		t.Fatal(err)
	}
	if err := w.Next(); err != nil {
		t.Fatal(err)
	}
	if err := w.ChooseStart(at(14, 0)); err != nil {
		t.Fatal(err)
	}
	if err := w.Next(); err != nil {
		t.Fatal(err)
	}
	if w.Step() != StepConfirm {
		t.Fatalf("at %s, want %s", w.Step(), StepConfirm)
	}
	if err := w.Next(); err != nil {
		t.Fatal(err)
	}
	if w.Step() != StepDone {
		t.Fatalf("at %s, want %s", w.Step(), StepDone)
	}

	// Done is terminal.
	if err := w.Next(); !httperr.IsBusiness(err, "wizard_finished") {
		t.Fatalf("advancing past done: got %v", err)
	}

	sel := w.Selection()
	if sel.ServiceID != 3 || sel.BarberID != 2 || !sel.Start.Equal(at(14, 0)) {
		t.Fatalf("selection lost along the way: %+v", sel)
	}
}

func TestWizardGuardsBlockSkipping(t *testing.T) {
	w := NewWizard()

	if err := w.Next(); !httperr.IsBusiness(err, "service_not_selected") {
		t.Fatalf("advanced without a service: %v", err)
	}

	_ = w.ChooseService(1)
	_ = w.Next()
	if err := w.Next(); !httperr.IsBusiness(err, "barber_not_selected") {
		t.Fatalf("advanced without a barber: %v", err)
	}

	_ = w.ChooseBarber(2)
	_ = w.Next()
	if err := w.Next(); !httperr.IsBusiness(err, "datetime_not_selected") {
		t.Fatalf("advanced without a time: %v", err)
	}
}

func TestWizardBackKeepsSelection(t *testing.T) {
	w := NewWizard()
	_ = w.ChooseService(1)
	_ = w.Next()
	_ = w.ChooseBarber(2)
	_ = w.Next()

	if err := w.Back(); err != nil {
		t.Fatal(err)
	}
	if w.Step() != StepSelectBarber {
		t.Fatalf("at %s after back, want %s", w.Step(), StepSelectBarber)
	}
	if w.Selection().BarberID != 2 {
		t.Fatal("going back dropped the barber choice")
	}

	// Changing the barber and advancing again must work.
	if err := w.ChooseBarber(3); err != nil {
		t.Fatal(err)
	}
	if err := w.Next(); err != nil {
		t.Fatal(err)
	}
	if w.Selection().BarberID != 3 {
		t.Fatal("re-selection not applied")
	}
}

func TestWizardBackAtStart(t *testing.T) {
	w := NewWizard()
	if err := w.Back(); !httperr.IsBusiness(err, "wizard_at_start") {
		t.Fatalf("got %v, want wizard_at_start", err)
	}
}

func TestWizardChooseAtWrongStep(t *testing.T) {
	w := NewWizard()
	if err := w.ChooseBarber(2); !httperr.IsBusiness(err, "wrong_step") {
		t.Fatalf("barber choice accepted at %s: %v", w.Step(), err)
	}
	if err := w.ChooseStart(time.Now()); !httperr.IsBusiness(err, "wrong_step") {
		t.Fatalf("time choice accepted at %s: %v", w.Step(), err)
	}
}

func TestResumeWizard(t *testing.T) {
	sel := WizardSelection{ServiceID: 1, BarberID: 2, Start: at(10, 0)}

	w, err := ResumeWizard(StepConfirm, sel)
	if err != nil {
		t.Fatal(err)
	}
	if w.Step() != StepConfirm {
		t.Fatalf("resumed at %s, want %s", w.Step(), StepConfirm)
	}

	// A selection missing its barber cannot reach the datetime step.
	if _, err := ResumeWizard(StepSelectDateTime, WizardSelection{ServiceID: 1}); !httperr.IsBusiness(err, "barber_not_selected") {
		t.Fatalf("got %v, want barber_not_selected", err)
	}
}
