package pricing

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

var now = time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

func percentRule(priority int, value float64) Rule {
	return Rule{ID: uuid.New(), ModifierType: ModifierPercentage, ModifierValue: value, Priority: priority, IsActive: true}
}

func fixedRule(priority int, value float64) Rule {
	return Rule{ID: uuid.New(), ModifierType: ModifierFixedAmount, ModifierValue: value, Priority: priority, IsActive: true}
}

func TestResolveNoRulesReturnsRoundedBase(t *testing.T) {
	got, applied, err := Resolve(99.999, nil, Scope{}, now)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != 100.00 {
		t.Fatalf("expected 100.00, got %v", got)
	}
	if len(applied) != 0 {
		t.Fatalf("expected no applied rules, got %d", len(applied))
	}
}

// Priority order changes the outcome: compounding is order-dependent.
func TestResolveCompoundingOrder(t *testing.T) {
	pct := percentRule(10, 10) // +10%
	fix := fixedRule(20, 5)    // +$5

	got, applied, err := Resolve(100, []Rule{fix, pct}, Scope{}, now)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != 115.00 {
		t.Fatalf("(100*1.10)+5: expected 115.00, got %v", got)
	}
	if len(applied) != 2 || applied[0].RuleID != pct.ID {
		t.Fatalf("expected percentage rule applied first, got %+v", applied)
	}

	// Swap priorities: (100+5)*1.10 = 115.50.
	pct.Priority, fix.Priority = 20, 10
	got, _, err = Resolve(100, []Rule{fix, pct}, Scope{}, now)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != 115.50 {
		t.Fatalf("(100+5)*1.10: expected 115.50, got %v", got)
	}
}

func TestResolveEqualPriorityIsStable(t *testing.T) {
	a := fixedRule(100, 10)
	b := percentRule(100, 50)

	got, applied, err := Resolve(100, []Rule{a, b}, Scope{}, now)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	// Input order preserved on ties: (100+10)*1.50.
	if got != 165.00 {
		t.Fatalf("expected 165.00, got %v", got)
	}
	if applied[0].RuleID != a.ID {
		t.Fatal("expected tie to preserve input order")
	}
}

func TestResolveValidityWindow(t *testing.T) {
	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)

	expired := percentRule(10, 50)
	expired.ValidUntil = &past

	upcoming := percentRule(10, 50)
	upcoming.ValidFrom = &future

	current := fixedRule(20, 7)
	current.ValidFrom = &past
	current.ValidUntil = &future

	openEnded := fixedRule(30, 3)

	got, applied, err := Resolve(100, []Rule{expired, upcoming, current, openEnded}, Scope{}, now)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != 110.00 {
		t.Fatalf("expected 110.00 from the two in-window rules, got %v", got)
	}
	if len(applied) != 2 {
		t.Fatalf("expected 2 applied rules, got %d", len(applied))
	}
}

func TestResolveScopeNarrowing(t *testing.T) {
	typeA := uuid.New()
	typeB := uuid.New()

	anyType := fixedRule(10, 5)
	onlyA := fixedRule(20, 100)
	onlyA.BookableTypeID = &typeA

	rules := []Rule{anyType, onlyA}

	got, _, err := Resolve(100, rules, Scope{BookableTypeID: &typeB}, now)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != 105.00 {
		t.Fatalf("type-B request must skip the type-A rule: expected 105.00, got %v", got)
	}

	got, _, err = Resolve(100, rules, Scope{BookableTypeID: &typeA}, now)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != 205.00 {
		t.Fatalf("type-A request matches both rules: expected 205.00, got %v", got)
	}

	got, _, err = Resolve(100, rules, Scope{}, now)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != 105.00 {
		t.Fatalf("unscoped request must skip the narrowed rule: expected 105.00, got %v", got)
	}
}

func TestResolveInactiveRuleSkipped(t *testing.T) {
	inactive := percentRule(10, 100)
	inactive.IsActive = false

	got, _, err := Resolve(50, []Rule{inactive}, Scope{}, now)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != 50.00 {
		t.Fatalf("expected untouched price 50.00, got %v", got)
	}
}

func TestResolveClampsAtZero(t *testing.T) {
	discount := fixedRule(10, -200)

	got, _, err := Resolve(100, []Rule{discount}, Scope{}, now)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != 0 {
		t.Fatalf("expected clamp to 0, got %v", got)
	}
}

func TestResolveUnknownModifierFailsFast(t *testing.T) {
	bad := Rule{ID: uuid.New(), ModifierType: "multiplier", ModifierValue: 2, Priority: 10, IsActive: true}

	_, _, err := Resolve(100, []Rule{bad}, Scope{}, now)
	if !errors.Is(err, ErrUnknownModifier) {
		t.Fatalf("expected ErrUnknownModifier, got %v", err)
	}
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.125, 0.13}, // exact binary half rounds up
		{0.025, 0.03},
		{1.004, 1.00},
		{1.006, 1.01},
		{10, 10},
		{115.4999, 115.50},
	}
	for _, tt := range tests {
		if got := Round(tt.in); got != tt.want {
			t.Errorf("Round(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
