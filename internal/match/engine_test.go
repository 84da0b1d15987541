package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energysink-engine/internal/domain"
	"energysink-engine/internal/reputation"
)

func testTable() *reputation.Table {
	return reputation.NewTable(map[string]domain.ReputationRecord{
		"frontend engineer": {Name: "", Score: 25},
		"meta":              {Name: "Meta", Score: 18},
		"google":            {Name: "Google", Score: 12},
		"amazon":            {Name: "Amazon", Score: 33},
	})
}

func fixedJitter(n int) func(int) int {
	return func(int) int { return n }
}

func TestMatch_EmptySkillsIsError(t *testing.T) {
	e := &Engine{Table: testTable()}
	_, err := e.Match(nil)
	require.ErrorIs(t, err, ErrNoSkills)
}

func TestMatch_DedupAndCap(t *testing.T) {
	// javascript and react both map to "frontend engineer" and "meta": the
	// shared tuples must appear once, first occurrence preserved.
	e := &Engine{Table: testTable(), Jitter: fixedJitter(0)}

	res, err := e.Match([]string{"javascript", "react"})
	require.NoError(t, err)
	require.LessOrEqual(t, len(res.Recommendations), 3)

	counts := map[Recommendation]int{}
	for _, r := range res.Recommendations {
		counts[r]++
	}
	for rec, n := range counts {
		assert.Equal(t, 1, n, "duplicate tuple %+v", rec)
	}

	assert.Equal(t, "frontend engineer", res.Recommendations[0].Position)
	assert.Equal(t, 25, res.Recommendations[0].ReputationScore)
}

func TestMatch_NeverMoreThanThree(t *testing.T) {
	e := &Engine{Table: testTable(), Jitter: fixedJitter(0)}
	res, err := e.Match([]string{"javascript", "react", "node.js", "python"})
	require.NoError(t, err)
	assert.Len(t, res.Recommendations, 3)
}

func TestMatch_PositionHeuristic(t *testing.T) {
	e := &Engine{Table: testTable(), Jitter: fixedJitter(0)}
	res, err := e.Match([]string{"javascript"})
	require.NoError(t, err)

	byCompany := map[string]Recommendation{}
	for _, r := range res.Recommendations {
		byCompany[r.Company] = r
	}
	// Company candidates become "Specialist" roles; engineer roles keep their name.
	assert.Equal(t, "Specialist", byCompany["Meta"].Position)
	assert.Equal(t, "frontend engineer", byCompany["frontend engineer"].Position)
}

func TestMatch_ScoreRange(t *testing.T) {
	e := &Engine{Table: testTable()}

	// one matched skill: base 15, jitter [0,20) -> clamped to the 40 floor
	res, err := e.Match([]string{"javascript"})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.ATSScore, 40)
	assert.LessOrEqual(t, res.ATSScore, 98)

	// six matched skills: base 90, jitter may push past the 98 ceiling
	res, err = e.Match([]string{"javascript", "react", "node.js", "python", "java", "sales"})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.ATSScore, 90)
	assert.LessOrEqual(t, res.ATSScore, 98)
}

func TestMatch_UnknownSkillAddsNothing(t *testing.T) {
	e := &Engine{Table: testTable(), Jitter: fixedJitter(0)}
	res, err := e.Match([]string{"basket weaving"})
	require.NoError(t, err)
	assert.Empty(t, res.Recommendations)
	assert.Equal(t, 40, res.ATSScore) // base 0 clamps to floor
}
