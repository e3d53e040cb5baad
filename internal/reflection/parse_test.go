package reflection

import "testing"

func TestParse_WellFormed(t *testing.T) {
	text := `BELIEFS:
- key: swarm_stability
  hypothesis: the swarm is converging
  confidence: 0.7
- key: peer_reliability
  hypothesis: peers share insights honestly
  confidence: 0.4
REASONS:
- prediction error stayed high for three ticks
- trust in peer a2 dropped
`
	parsed := Parse(text)

	if len(parsed.Beliefs) != 2 {
		t.Fatalf("parsed %d beliefs, want 2", len(parsed.Beliefs))
	}
	if parsed.Beliefs[0].Key != "swarm_stability" || parsed.Beliefs[0].Confidence != 0.7 {
		t.Errorf("first belief = %+v", parsed.Beliefs[0])
	}
	if len(parsed.Reasons) != 2 {
		t.Fatalf("parsed %d reasons, want 2", len(parsed.Reasons))
	}
}

func TestParse_SkipsMalformedEntries(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{
			name: "missing confidence",
			text: "BELIEFS:\n- key: a\n  hypothesis: h\nREASONS:\n- r\n",
			want: 0,
		},
		{
			name: "unparseable confidence",
			text: "BELIEFS:\n- key: a\n  hypothesis: h\n  confidence: very high\n",
			want: 0,
		},
		{
			name: "missing hypothesis",
			text: "BELIEFS:\n- key: a\n  confidence: 0.5\n",
			want: 0,
		},
		{
			name: "one good one bad",
			text: "BELIEFS:\n- key: a\n  hypothesis: h\n  confidence: 0.5\n- key: b\n  hypothesis: broken\n  confidence: nope\n",
			want: 1,
		},
		{
			name: "empty input",
			text: "",
			want: 0,
		},
		{
			name: "free text with no sections",
			text: "I have thought deeply about my predictions and feel uncertain.",
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := Parse(tt.text)
			if len(parsed.Beliefs) != tt.want {
				t.Errorf("parsed %d beliefs, want %d", len(parsed.Beliefs), tt.want)
			}
		})
	}
}

func TestParse_ClampsConfidence(t *testing.T) {
	text := "BELIEFS:\n- key: a\n  hypothesis: h\n  confidence: 1.7\n"
	parsed := Parse(text)
	if len(parsed.Beliefs) != 1 {
		t.Fatalf("parsed %d beliefs, want 1", len(parsed.Beliefs))
	}
	if parsed.Beliefs[0].Confidence != 1.0 {
		t.Errorf("confidence = %v, want clamped 1.0", parsed.Beliefs[0].Confidence)
	}
}

func TestParse_CaseInsensitiveSections(t *testing.T) {
	text := "beliefs:\n- Key: a\n  Hypothesis: h\n  Confidence: 0.3\nreasons:\n- because\n"
	parsed := Parse(text)
	if len(parsed.Beliefs) != 1 || len(parsed.Reasons) != 1 {
		t.Errorf("parsed %d beliefs / %d reasons, want 1 / 1", len(parsed.Beliefs), len(parsed.Reasons))
	}
}
