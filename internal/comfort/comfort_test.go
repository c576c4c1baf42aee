package comfort

import "testing"

func TestShouldAlert(t *testing.T) {
	tests := []struct {
		prev, next Level
		want       bool
	}{
		{Comfortable, Uncomfortable, true},
		{Comfortable, PoorAir, true},
		{Comfortable, "freezing", true},
		{Comfortable, Comfortable, false},
		{Uncomfortable, Uncomfortable, false},
		{Uncomfortable, PoorAir, false},
		{Uncomfortable, Comfortable, false},
		{PoorAir, Comfortable, false},
	}

	for _, tt := range tests {
		if got := ShouldAlert(tt.prev, tt.next); got != tt.want {
			t.Errorf("ShouldAlert(%q, %q) = %v, want %v", tt.prev, tt.next, got, tt.want)
		}
	}
}

func TestShouldAlert_Sequence(t *testing.T) {
	// comfortable, uncomfortable, uncomfortable, comfortable, uncomfortable
	// alerts on the 2nd and 5th value only
	seq := []Level{Comfortable, Uncomfortable, Uncomfortable, Comfortable, Uncomfortable}
	prev := Comfortable
	var alerts []int

	for i, level := range seq {
		if ShouldAlert(prev, level) {
			alerts = append(alerts, i+1)
		}
		prev = level
	}

	if len(alerts) != 2 || alerts[0] != 2 || alerts[1] != 5 {
		t.Errorf("alerts at %v, want [2 5]", alerts)
	}
}

func TestNewStatus(t *testing.T) {
	reasons := []string{"High temperature"}
	s := NewStatus("uncomfortable", reasons)
	reasons[0] = "mutated"

	if s.Level != Uncomfortable {
		t.Errorf("Level = %q", s.Level)
	}
	if s.Reasons[0] != "High temperature" {
		t.Error("NewStatus should copy reasons")
	}

	if got := NewStatus("", nil); got.Level != "" || got.Reasons != nil {
		t.Errorf("NewStatus(\"\", nil) = %+v, want the empty level kept", got)
	}
	if !ShouldAlert(Comfortable, NewStatus("", nil).Level) {
		t.Error("a missing level should count as leaving comfortable")
	}
}

func TestLevel_Display(t *testing.T) {
	titles := map[Level]string{
		PoorAir:          "Poor Air",
		"économe":        "Économe",
		"très humide":    "Très Humide",
		"":               "",
		" uncomfortable": "Uncomfortable",
	}
	for level, want := range titles {
		if got := level.Title(); got != want {
			t.Errorf("Level(%q).Title() = %q, want %q", level, got, want)
		}
	}
	if Uncomfortable.Severity() != SeverityWarning || PoorAir.Severity() != SeverityCritical {
		t.Error("unexpected severities")
	}
	if got := (Status{Reasons: []string{"a", "b"}}).ReasonsText(); got != "a, b" {
		t.Errorf("ReasonsText() = %q", got)
	}
}
