package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energysink-engine/internal/domain"
	"energysink-engine/internal/identity"
	"energysink-engine/internal/reputation"
	"energysink-engine/internal/signal"
)

func tableWith(records map[string]domain.ReputationRecord) *reputation.Table {
	return reputation.NewTable(records)
}

func storeWith(t *testing.T, id domain.JobIdentity, sigs ...domain.EffortSignal) *signal.Store {
	t.Helper()
	st := signal.NewStore(signal.Options{}, nil)
	for _, s := range sigs {
		require.NoError(t, st.Record(id, s))
	}
	return st
}

func TestScore_CompanyKeyBeatsPositionKey(t *testing.T) {
	e := &Engine{
		Table: tableWith(map[string]domain.ReputationRecord{
			"meta":              {Name: "Meta", Score: 10, Recommendation: "Apply with Confidence"},
			"frontend engineer": {Name: "frontend engineer", Score: 90, Recommendation: "Avoid"},
		}),
		Signals: signal.NewStore(signal.Options{}, nil),
	}

	rec := e.Score(domain.JobIdentity{}, "Meta", "Frontend Engineer")
	assert.True(t, rec.IsHistoric)
	assert.Equal(t, "Meta", rec.Name)
	assert.Equal(t, 10, rec.Score)
	assert.Equal(t, MethodHistoric, rec.Method)
}

func TestScore_PositionKeyHistoricFallback(t *testing.T) {
	e := &Engine{
		Table: tableWith(map[string]domain.ReputationRecord{
			"data scientist": {Name: "data scientist", Score: 40},
		}),
		Signals: signal.NewStore(signal.Options{}, nil),
	}

	rec := e.Score(domain.JobIdentity{}, "Unknown Co", "Data Scientist")
	assert.True(t, rec.IsHistoric)
	assert.Equal(t, 40, rec.Score)
}

func TestScore_InsufficientDataSentinel(t *testing.T) {
	e := &Engine{Table: reputation.Empty(), Signals: signal.NewStore(signal.Options{}, nil)}

	rec := e.Score(domain.JobIdentity{}, "nobody", "nothing")
	assert.Equal(t, 0, rec.Score)
	assert.False(t, rec.IsHistoric)
	assert.Equal(t, "Insufficient Data", rec.Recommendation)
	require.Len(t, rec.Traits, 1)
	assert.Equal(t, "Fresh Listing", rec.Traits[0].Label)
	assert.Equal(t, domain.TraitInfo, rec.Traits[0].Type)
	assert.Equal(t, MethodInsufficient, rec.Method)
}

func TestScore_LiveFormulaGoldenValues(t *testing.T) {
	id := identity.Natural("acme", "dev")

	cases := []struct {
		name      string
		effort    float64
		responses int
		want      int
	}{
		// raw = 0 / 1 = 0
		{"zero effort zero responses", 0, 0, 0},
		// raw = 500 / 1^1.5 = 500 -> *2 saturates at 100
		{"effort 500 no responses saturates", 500, 0, 100},
		// raw = 30 / 4^1.5 = 30/8 = 3.75 -> *2 = 7.5 -> round 8
		{"effort 30 three responses", 30, 3, 8},
		// raw = 40 / 2^1.5 = 14.142... -> *2 = 28.28 -> round 28
		{"effort 40 one response", 40, 1, 28},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sigs := []domain.EffortSignal{}
			if tc.effort > 0 {
				sigs = append(sigs, domain.EffortSignal{Kind: domain.KindTimeSpent, Value: tc.effort})
			}
			for i := 0; i < tc.responses; i++ {
				sigs = append(sigs, domain.EffortSignal{Kind: domain.KindObservedResponse})
			}
			if len(sigs) == 0 {
				// zero-signal case is the sentinel, assert separately
				e := &Engine{Table: reputation.Empty(), Signals: signal.NewStore(signal.Options{}, nil)}
				assert.Equal(t, 0, e.Score(domain.JobIdentity{}, "acme", "dev").Score)
				return
			}

			e := &Engine{Table: reputation.Empty(), Signals: storeWith(t, id, sigs...)}
			rec := e.Score(domain.JobIdentity{}, "acme", "dev")
			assert.Equal(t, tc.want, rec.Score)
			assert.Equal(t, MethodLive, rec.Method)
			assert.LessOrEqual(t, rec.Score, 100, "must never exceed saturation")
		})
	}
}

func TestScore_LiveRecordFields(t *testing.T) {
	id := identity.Natural("acme", "dev")
	st := storeWith(t, id,
		domain.EffortSignal{Kind: domain.KindFileUpload},          // 20
		domain.EffortSignal{Kind: domain.KindApplicationSubmitted}, // 50
		domain.EffortSignal{Kind: domain.KindObservedResponse},
	)
	e := &Engine{Table: reputation.Empty(), Signals: st}

	rec := e.Score(domain.JobIdentity{}, "acme", "dev")
	require.NotNil(t, rec.EffortCount)
	assert.Equal(t, 70, *rec.EffortCount)
	assert.Equal(t, 1, rec.ResponseCount)
	// raw = 70 / 2^1.5 = 24.748... -> *2 = 49.49 -> round 49
	assert.Equal(t, 49, rec.Score)
	assert.Equal(t, "Proceed with Caution", rec.Recommendation)
}

func TestScore_FingerprintAddressedBucket(t *testing.T) {
	fp := identity.Opaque("deadbeefdeadbeef")
	st := storeWith(t, fp, domain.EffortSignal{Kind: domain.KindApplicationSubmitted})
	e := &Engine{Table: reputation.Empty(), Signals: st}

	// The natural-key bucket is empty; the fingerprint bucket scores.
	rec := e.Score(fp, "acme", "dev")
	assert.Equal(t, MethodLive, rec.Method)
	assert.Equal(t, 100, rec.Score) // 50/1*2 = 100

	natural := e.Score(domain.JobIdentity{}, "acme", "dev")
	assert.Equal(t, MethodInsufficient, natural.Method)
}

func TestScore_RiskTraitsFromDenylist(t *testing.T) {
	id := identity.Natural("acme", "data entry clerk")
	st := storeWith(t, id, domain.EffortSignal{Kind: domain.KindClick})
	e := &Engine{Table: reputation.Empty(), Signals: st}

	rec := e.Score(domain.JobIdentity{}, "acme", "Data Entry Clerk")
	require.GreaterOrEqual(t, len(rec.Traits), 3)
	assert.Equal(t, domain.TraitRisk, rec.Traits[0].Type)
	assert.Equal(t, "Effort Sink Pattern", rec.Traits[1].Label)
}

func TestScore_HistoricTraitFraming(t *testing.T) {
	e := &Engine{
		Table: tableWith(map[string]domain.ReputationRecord{
			"sketchy llc": {Name: "Sketchy LLC", Score: 100},
			"globex":      {Name: "Globex", Score: 0},
		}),
		Signals: signal.NewStore(signal.Options{}, nil),
	}

	high := e.Score(domain.JobIdentity{}, "Sketchy LLC", "")
	require.Len(t, high.Traits, 2)
	assert.Equal(t, "Historic Pattern Match", high.Traits[0].Label)
	assert.Equal(t, "High Energy Sink", high.Traits[1].Label)

	low := e.Score(domain.JobIdentity{}, "Globex", "")
	assert.Equal(t, "Healthy Response Signal", low.Traits[1].Label)
}

func TestScore_EmptyInputsNeverError(t *testing.T) {
	e := &Engine{Table: reputation.Empty(), Signals: signal.NewStore(signal.Options{}, nil)}
	rec := e.Score(domain.JobIdentity{}, "", "")
	assert.Equal(t, 0, rec.Score)
	assert.Equal(t, MethodInsufficient, rec.Method)
}

func TestScore_DegradedNilTable(t *testing.T) {
	id := identity.Natural("meta", "dev")
	st := storeWith(t, id, domain.EffortSignal{Kind: domain.KindClick})
	e := &Engine{Table: nil, Signals: st}

	rec := e.Score(domain.JobIdentity{}, "meta", "dev")
	assert.Equal(t, MethodLive, rec.Method)
}
