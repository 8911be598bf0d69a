package smoke

import (
	"hash/fnv"
	"math/rand/v2"
	"strconv"
)

// generateCases returns n valid triples drawn from a seeded source so a run
// can be replayed.
func generateCases(n int, seed uint64) []Case {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	cases := make([]Case, n)
	for i := range cases {
		cases[i] = Case{
			Experience:     strconv.Itoa(r.IntN(31)),
			TestScore:      strconv.FormatFloat(float64(r.IntN(101))/10, 'f', 1, 64),
			InterviewScore: strconv.FormatFloat(float64(r.IntN(101))/10, 'f', 1, 64),
		}
	}
	return cases
}

// invalidCases returns submissions with exactly one non-numeric field.
func invalidCases() []Case {
	return []Case{
		{Experience: "five", TestScore: "8", InterviewScore: "7"},
		{Experience: "5", TestScore: "", InterviewScore: "7"},
		{Experience: "5", TestScore: "8", InterviewScore: "7/10"},
	}
}

// seedFromRunID derives a seed when none is configured.
func seedFromRunID(runID string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(runID))
	return h.Sum64()
}
