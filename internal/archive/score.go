package archive

// Badman criteria names, in canonical order.
const (
	CriterionOutlawRelationship        = "outlaw_relationship"
	CriterionCommunityAuthorization    = "community_authorization"
	CriterionViolenceAsLanguage        = "violence_as_language"
	CriterionCulturalPreservation      = "cultural_preservation"
	CriterionHypermasculinePerformance = "hypermasculine_performance"
)

const (
	MaxCriterionScore = 5
	MaxBadmanScore    = 5 * MaxCriterionScore
)

// Criterion is one scored badman criterion.
type Criterion struct {
	Score int `json:"score"`
}

// ScoreRecord holds the five badman criteria. A nil field is a missing
// criterion, not a zero.
type ScoreRecord struct {
	OutlawRelationship        *Criterion `json:"outlaw_relationship,omitempty" yaml:"outlaw_relationship,omitempty"`
	CommunityAuthorization    *Criterion `json:"community_authorization,omitempty" yaml:"community_authorization,omitempty"`
	ViolenceAsLanguage        *Criterion `json:"violence_as_language,omitempty" yaml:"violence_as_language,omitempty"`
	CulturalPreservation      *Criterion `json:"cultural_preservation,omitempty" yaml:"cultural_preservation,omitempty"`
	HypermasculinePerformance *Criterion `json:"hypermasculine_performance,omitempty" yaml:"hypermasculine_performance,omitempty"`
}

type namedCriterion struct {
	name string
	c    *Criterion
}

func (r ScoreRecord) criteria() []namedCriterion {
	return []namedCriterion{
		{CriterionOutlawRelationship, r.OutlawRelationship},
		{CriterionCommunityAuthorization, r.CommunityAuthorization},
		{CriterionViolenceAsLanguage, r.ViolenceAsLanguage},
		{CriterionCulturalPreservation, r.CulturalPreservation},
		{CriterionHypermasculinePerformance, r.HypermasculinePerformance},
	}
}

// ComputeBadmanScore sums the five criteria. It fails with a
// *MissingCriterionError naming the first absent criterion.
func ComputeBadmanScore(r ScoreRecord) (int, error) {
	total := 0
	for _, nc := range r.criteria() {
		if nc.c == nil {
			return 0, &MissingCriterionError{Criterion: nc.name}
		}
		total += nc.c.Score
	}
	return total, nil
}

// OutOfRange lists the criteria whose score falls outside [0, MaxCriterionScore].
// Scores are not clamped; callers decide what to do with the report.
func (r ScoreRecord) OutOfRange() []string {
	var names []string
	for _, nc := range r.criteria() {
		if nc.c == nil {
			continue
		}
		if nc.c.Score < 0 || nc.c.Score > MaxCriterionScore {
			names = append(names, nc.name)
		}
	}
	return names
}
