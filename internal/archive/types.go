package archive

// FilterAll selects every phase.
const FilterAll = "all"

// Catalog is the immutable archive document: metadata, phases and citations.
type Catalog struct {
	Meta      Meta             `json:"meta"`
	Phases    PhaseList        `json:"phases"`
	Citations map[int]Citation `json:"citations"`
}

// Meta describes the archive build.
type Meta struct {
	Title       string `json:"title"`
	Version     string `json:"version"`
	LastUpdated string `json:"lastUpdated"`
	Status      string `json:"status"`
	Progress    int    `json:"progress"` // percentage complete
}

// Phase is a named historical period grouping entries.
type Phase struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Period      string  `json:"period"`
	Description string  `json:"description"`
	Color       string  `json:"color"`
	Entries     []Entry `json:"entries"`
}

// Entry is a single documented figure or work within a phase.
type Entry struct {
	ID             string       `json:"id"`
	Title          string       `json:"title"`
	Year           int          `json:"year"`
	Type           string       `json:"type"` // "folk-ballad", "folk-hero", "film", ...
	Summary        string       `json:"summary"`
	PrimarySources []Source     `json:"primarySources"`
	Analysis       Analysis     `json:"analysis"`
	Citations      []int        `json:"citations"`
	Modality       string       `json:"modality,omitempty"`
	MetaBadman     bool         `json:"metaBadman,omitempty"`
	Scores         *ScoreRecord `json:"badmanScores,omitempty"`
}

// Source is a primary source attached to an entry.
type Source struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Year   int    `json:"year"`
	URL    string `json:"url"`
	Rights string `json:"rights"`
}

// Analysis holds the scholarly reading of an entry.
type Analysis struct {
	PerformativeLiteracies []string `json:"performativeLiteracies"`
	MythologicalFunction   string   `json:"mythologicalFunction"`
	ScholarlyNotes         string   `json:"scholarlyNotes"`
}

// Citation is a bibliography record. Both fields may carry inline emphasis
// markup; it is kept verbatim.
type Citation struct {
	Short string `json:"short"`
	Full  string `json:"full"`
}

// PhaseEntry pairs an entry with the id of the phase that owns it.
type PhaseEntry struct {
	PhaseID string `json:"phase"`
	Entry   Entry  `json:"entry"`
}

// WelcomeStats is the summary line shown on the first-visit overlay.
type WelcomeStats struct {
	Figures  int `json:"figures"`
	Phases   int `json:"phases"`
	Progress int `json:"progress"`
}
