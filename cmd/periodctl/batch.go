package main

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/warp/period-engine/period"
)

// BatchFile is the YAML layout accepted by -batch:
//
//	wait: 1m0d            # optional, overrides the configured default
//	periods:
//	  - {year: 2024, period_type: quarter, period_number: 1}
//	  - {year: 2024, period_type: week, period_number: 10, wait_period: {months: 0, days: 7}}
type BatchFile struct {
	Wait    string         `yaml:"wait"`
	Periods []period.Input `yaml:"periods"`
}

// ResolveBatch decodes a batch file and resolves every entry. Entries
// without wait_period use the file's wait, then defaultWait. The first
// invalid entry aborts the batch.
func ResolveBatch(r io.Reader, defaultWait period.WaitPeriod) ([]*period.EventParams, error) {
	var bf BatchFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&bf); err != nil {
		return nil, fmt.Errorf("decoding batch: %w", err)
	}
	if len(bf.Periods) == 0 {
		return nil, fmt.Errorf("batch has no periods")
	}

	wait := defaultWait
	if bf.Wait != "" {
		w, err := period.ParseWaitPeriod(bf.Wait)
		if err != nil {
			return nil, err
		}
		wait = w
	}

	eps := make([]*period.EventParams, 0, len(bf.Periods))
	for i, in := range bf.Periods {
		if in.WaitPeriod == nil {
			w := wait
			in.WaitPeriod = &w
		}
		ep, err := period.NewEventParams(in)
		if err != nil {
			return nil, fmt.Errorf("period %d: %w", i+1, err)
		}
		eps = append(eps, ep)
	}
	return eps, nil
}

// Result is one resolved period as printed on stdout.
type Result struct {
	Label          string             `json:"label"`
	TaggedLabel    string             `json:"tagged_label"`
	EtterslepLabel string             `json:"etterslep_label"`
	QueryParams    period.QueryParams `json:"query_params"`
	RunID          string             `json:"run_id,omitempty"`
}

func newResult(ep *period.EventParams) Result {
	return Result{
		Label:          ep.PeriodLabel(),
		TaggedLabel:    ep.TaggedLabel(),
		EtterslepLabel: ep.EtterslepLabel(),
		QueryParams:    ep.ToQueryParams(),
	}
}
