package bench

import "time"

// Trial is the outcome of one matrix/vector pair.
type Trial struct {
	Matrix int           `json:"matrix"`
	Vector int           `json:"vector"`
	AbsErr float64       `json:"abs_err"`
	RelErr float64       `json:"rel_err"`
	HW     time.Duration `json:"hw_ns"`
	SW     time.Duration `json:"sw_ns"`
}

// Stats is the summary of a run, consumed by the reporting layer.
type Stats struct {
	ID        string        `json:"id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`

	Height   int   `json:"height"`
	Width    int   `json:"width"`
	Matrices int   `json:"n_matrices"`
	Vectors  int   `json:"n_vectors"`
	Seed     int64 `json:"seed"`
	DryRun   bool  `json:"dry_run"`

	MeanErr    float64 `json:"mean_err"`
	MaxErr     float64 `json:"max_err"`
	MeanRelErr float64 `json:"mean_rel_err"`
	MaxRelErr  float64 `json:"max_rel_err"`

	HWTotal time.Duration `json:"hw_total_ns"`
	HWMax   time.Duration `json:"hw_max_ns"`
	SWTotal time.Duration `json:"sw_total_ns"`
	SWMax   time.Duration `json:"sw_max_ns"`

	// Trials is only filled when Config.KeepTrials is set.
	Trials []Trial `json:"trials,omitempty"`
}

// Runs is the number of planned trials, the divisor of every mean.
func (s *Stats) Runs() int {
	return s.Matrices * s.Vectors
}

func (s *Stats) HWMean() time.Duration {
	if s.Runs() == 0 {
		return 0
	}
	return s.HWTotal / time.Duration(s.Runs())
}

func (s *Stats) SWMean() time.Duration {
	if s.Runs() == 0 {
		return 0
	}
	return s.SWTotal / time.Duration(s.Runs())
}

// session is the mutable state of one run.
type session struct {
	cfg   Config
	stats Stats

	sumErr    float64
	sumRelErr float64
}

func newSession(cfg Config) *session {
	return &session{
		cfg: cfg,
		stats: Stats{
			Matrices: cfg.Matrices,
			Vectors:  cfg.Vectors,
			Seed:     cfg.Seed,
			DryRun:   cfg.DryRun,
		},
	}
}

func (s *session) record(t Trial) {
	st := &s.stats
	if s.cfg.KeepTrials {
		st.Trials = append(st.Trials, t)
	}

	s.sumErr += t.AbsErr
	st.MaxErr = max(st.MaxErr, t.AbsErr)
	s.sumRelErr += t.RelErr
	st.MaxRelErr = max(st.MaxRelErr, t.RelErr)

	st.HWTotal += t.HW
	st.HWMax = max(st.HWMax, t.HW)
	st.SWTotal += t.SW
	st.SWMax = max(st.SWMax, t.SW)
}

func (s *session) finish(now time.Time) *Stats {
	st := &s.stats
	if runs := st.Runs(); runs > 0 {
		st.MeanErr = s.sumErr / float64(runs)
		st.MeanRelErr = s.sumRelErr / float64(runs)
	}
	st.Duration = now.Sub(st.StartedAt)
	out := *st
	return &out
}
