package entity

import "sort"

// IssueKind classifies a recoverable problem found during a run.
type IssueKind string

const (
	IssueMissingClientID IssueKind = "missing_client_id"
	IssueInvalidValue    IssueKind = "invalid_value"
	IssueDuplicateClient IssueKind = "duplicate_client"
	IssueMissingClient   IssueKind = "missing_client"
	IssueInsufficient    IssueKind = "insufficient_data"
)

// Issue is a recoverable problem. The run went on, either without the affected
// rows or with the offending value zeroed.
type Issue struct {
	Kind    IssueKind `json:"kind"`
	Table   TableName `json:"table,omitempty"`
	Key     string    `json:"key,omitempty"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

// NewIssue builds an Issue from the error that describes it.
func NewIssue(kind IssueKind, table TableName, key string, err error) Issue {
	return Issue{Kind: kind, Table: table, Key: key, Message: err.Error(), Err: err}
}

// TableStats counts what happened to the rows of one table.
type TableStats struct {
	Table       TableName `json:"table"`
	Read        int       `json:"read"`
	Invalid     int       `json:"invalid"`
	MissingID   int       `json:"missing_id"`
	Duplicates  int       `json:"duplicates"`
	OutOfWindow int       `json:"out_of_window"`
	Orphaned    int       `json:"orphaned"`
	Kept        int       `json:"kept"`
}

// Dropped is the number of rows removed for any reason.
func (s TableStats) Dropped() int {
	return s.Invalid + s.MissingID + s.Duplicates + s.OutOfWindow + s.Orphaned
}

// RunSummary accumulates per-table counters and issues across pipeline stages.
type RunSummary struct {
	Window Window                   `json:"window"`
	Tables map[TableName]TableStats `json:"tables"`
	Issues []Issue                  `json:"issues"`
}

// NewRunSummary creates an empty summary.
func NewRunSummary() *RunSummary {
	return &RunSummary{Tables: make(map[TableName]TableStats)}
}

// Merge adds the counters of each stats entry to the summary. Kept is
// overwritten since each stage reports the rows it let through.
func (s *RunSummary) Merge(stats ...TableStats) {
	for _, st := range stats {
		cur := s.Tables[st.Table]
		cur.Table = st.Table
		cur.Read += st.Read
		cur.Invalid += st.Invalid
		cur.MissingID += st.MissingID
		cur.Duplicates += st.Duplicates
		cur.OutOfWindow += st.OutOfWindow
		cur.Orphaned += st.Orphaned
		cur.Kept = st.Kept
		s.Tables[st.Table] = cur
	}
}

// AddIssues appends recoverable issues.
func (s *RunSummary) AddIssues(issues ...Issue) {
	s.Issues = append(s.Issues, issues...)
}

// Count returns the number of issues of a kind.
func (s *RunSummary) Count(kind IssueKind) int {
	n := 0
	for _, is := range s.Issues {
		if is.Kind == kind {
			n++
		}
	}
	return n
}

// SortedTables returns the table stats in source order.
func (s *RunSummary) SortedTables() []TableStats {
	order := make(map[TableName]int, len(SourceTables))
	for i, t := range SourceTables {
		order[t] = i
	}
	out := make([]TableStats, 0, len(s.Tables))
	for _, st := range s.Tables {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return order[out[i].Table] < order[out[j].Table] })
	return out
}
