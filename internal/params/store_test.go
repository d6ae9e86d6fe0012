package params

import "testing"

func TestStoreDefaults(t *testing.T) {
	s := NewStore()
	if s.LowGain() != 0.8 || s.MidGain() != 0.8 || s.HighGain() != 0.8 {
		t.Errorf("unexpected band gain defaults: low=%v mid=%v high=%v", s.LowGain(), s.MidGain(), s.HighGain())
	}
	if s.FluxSens() != 1.0 {
		t.Errorf("unexpected flux_sens default: %v", s.FluxSens())
	}
	if s.NormMode() != NormStatistical {
		t.Errorf("unexpected norm_mode default: %v", s.NormMode())
	}
}

func TestStoreSetClampsRange(t *testing.T) {
	s := NewStore()
	s.Set("low_gain", 99.0)
	if s.LowGain() != 10 {
		t.Errorf("expected low_gain clamped to 10, got %v", s.LowGain())
	}
	s.Set("low_gain", -5.0)
	if s.LowGain() != 0 {
		t.Errorf("expected low_gain clamped to 0, got %v", s.LowGain())
	}
}

func TestStoreSetUnknownKeyIgnored(t *testing.T) {
	s := NewStore()
	before := s.LowGain()
	s.Set("bogus_key", 5.0)
	if s.LowGain() != before {
		t.Errorf("unknown key mutated state")
	}
}

func TestStoreSetInvalidNormModeIgnored(t *testing.T) {
	s := NewStore()
	s.Set("norm_mode", "not_a_mode")
	if s.NormMode() != NormStatistical {
		t.Errorf("invalid norm_mode value should be ignored, got %v", s.NormMode())
	}
}

func TestStoreSetValidNormMode(t *testing.T) {
	s := NewStore()
	s.Set("norm_mode", "fixed")
	if s.NormMode() != NormFixed {
		t.Errorf("expected norm_mode fixed, got %v", s.NormMode())
	}
}

func TestStoreSetWrongTypeIgnored(t *testing.T) {
	s := NewStore()
	before := s.FluxSens()
	s.Set("flux_sens", "not a number")
	if s.FluxSens() != before {
		t.Errorf("wrong-typed value mutated state")
	}
}
