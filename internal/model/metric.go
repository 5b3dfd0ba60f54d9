package model

import (
	"fmt"
	"strings"
)

// Metric selects how a day's sets are reduced to one chart value.
type Metric int

const (
	MetricMaxWeight Metric = iota
	MetricSessionTotalVolume
	MetricBestSetVolume
	MetricEstimated1RM
)

var metricNames = map[Metric]string{
	MetricMaxWeight:          "max_weight",
	MetricSessionTotalVolume: "session_total_volume",
	MetricBestSetVolume:      "best_set_volume",
	MetricEstimated1RM:       "est_1rm",
}

var metricLabels = map[Metric]string{
	MetricMaxWeight:          "Max weight",
	MetricSessionTotalVolume: "Session volume",
	MetricBestSetVolume:      "Best set volume",
	MetricEstimated1RM:       "Estimated 1RM",
}

func Metrics() []Metric {
	return []Metric{MetricMaxWeight, MetricSessionTotalVolume, MetricBestSetVolume, MetricEstimated1RM}
}

func (m Metric) String() string {
	if s, ok := metricNames[m]; ok {
		return s
	}
	return fmt.Sprintf("metric(%d)", int(m))
}

func (m Metric) Label() string {
	if s, ok := metricLabels[m]; ok {
		return s
	}
	return m.String()
}

// PeakStyle reports whether buckets of this metric keep their maximum rather
// than their total when a series is downsampled.
func (m Metric) PeakStyle() bool {
	return m == MetricMaxWeight || m == MetricEstimated1RM
}

func (m Metric) Next() Metric {
	return Metric((int(m) + 1) % len(metricNames))
}

func ParseMetric(s string) (Metric, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for m, name := range metricNames {
		if name == s {
			return m, nil
		}
	}
	switch s {
	case "weight", "max":
		return MetricMaxWeight, nil
	case "volume":
		return MetricSessionTotalVolume, nil
	case "1rm", "e1rm":
		return MetricEstimated1RM, nil
	}
	return MetricMaxWeight, fmt.Errorf("unknown metric: %q", s)
}

func (m Metric) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Metric) UnmarshalText(b []byte) error {
	parsed, err := ParseMetric(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
