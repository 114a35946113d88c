package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Simplici0/printdesk/internal/pricing"
)

// jobFile is the YAML document read by quote and history.
type jobFile struct {
	Currency      string                   `yaml:"currency"`
	Catalog       pricing.Catalog          `yaml:"catalog"`
	PrinterID     string                   `yaml:"printer_id"`
	WorkPackageID string                   `yaml:"work_package_id"`
	Margin        *pricing.MarginSelection `yaml:"margin"`
	Draft         pricing.JobDraft         `yaml:"draft"`
}

func loadJob(path string) (jobFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return jobFile{}, fmt.Errorf("read job file: %w", err)
	}

	var job jobFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&job); err != nil && !errors.Is(err, io.EOF) {
		return jobFile{}, fmt.Errorf("parse job file %s: %w", path, err)
	}
	return job, nil
}

// margin resolves the margin to apply: the flag wins over the file, and the
// configured default profit margin applies when neither sets one.
func (j jobFile) margin(flag string, defaultPercent float64) (pricing.MarginSelection, error) {
	if flag != "" {
		return parseMarginFlag(flag, defaultPercent)
	}
	if j.Margin == nil {
		return pricing.DefaultMargin(defaultPercent), nil
	}
	return selectMargin(j.Margin.Kind, j.Margin.Percent, defaultPercent)
}

// parseMarginFlag reads "tier:40", "custom:35" or "default".
func parseMarginFlag(raw string, defaultPercent float64) (pricing.MarginSelection, error) {
	kind, percentRaw, hasPercent := strings.Cut(strings.TrimSpace(raw), ":")
	var percent float64
	if hasPercent {
		v, err := strconv.ParseFloat(strings.TrimSpace(percentRaw), 64)
		if err != nil {
			return pricing.MarginSelection{}, fmt.Errorf("parse margin percent %q: %w", percentRaw, err)
		}
		percent = v
	} else if pricing.MarginKind(kind) != pricing.MarginDefault {
		return pricing.MarginSelection{}, fmt.Errorf("margin %q needs a percent, e.g. %s:40", raw, kind)
	}
	return selectMargin(pricing.MarginKind(kind), percent, defaultPercent)
}

func selectMargin(kind pricing.MarginKind, percent, defaultPercent float64) (pricing.MarginSelection, error) {
	switch kind {
	case pricing.MarginTier:
		return pricing.TierMargin(percent)
	case pricing.MarginCustom:
		return pricing.CustomMargin(percent), nil
	case pricing.MarginDefault, "":
		return pricing.DefaultMargin(defaultPercent), nil
	default:
		return pricing.MarginSelection{}, fmt.Errorf("unknown margin kind %q", kind)
	}
}

func (j jobFile) printer() *pricing.PrinterRate {
	for i := range j.Catalog.Printers {
		if j.Catalog.Printers[i].PrinterID == j.PrinterID {
			return &j.Catalog.Printers[i]
		}
	}
	return nil
}
