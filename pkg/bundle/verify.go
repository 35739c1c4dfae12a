package bundle

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/provenantdev/provenant/pkg/api"
)

// VerifyResult is the outcome of an offline bundle verification. A bundle
// is valid iff Errors is empty; Warnings never invalidate it.
type VerifyResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

func (r *VerifyResult) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *VerifyResult) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Verify checks a bundle using only its public contents: the manifest must
// parse, every listed file must re-hash to its claimed content address,
// and the exported evidence must show a complete, single-run execution
// chain matching the manifest's execution id.
//
// path may be the bundle directory or the manifest file itself.
func Verify(path string) (*VerifyResult, error) {
	res := &VerifyResult{}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("bundle not found: %s", path)
	}

	dir := path
	manifestPath := filepath.Join(path, ManifestFile)
	if !info.IsDir() {
		manifestPath = path
		dir = filepath.Dir(path)
	}

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		res.errorf("manifest does not parse: %v", err)
		return res, nil
	}

	if m.ExecutionID == "" {
		res.errorf("manifest has no execution id")
	}
	if m.SealID == "" {
		res.warnf("manifest has no seal id")
	}
	if len(m.Entries) == 0 {
		res.errorf("manifest lists no entries")
	}

	verifyEntries(dir, &m, res)
	verifyEvidence(dir, &m, res)

	res.Valid = len(res.Errors) == 0
	return res, nil
}

// verifyEntries re-hashes every listed file against its claimed address.
func verifyEntries(dir string, m *Manifest, res *VerifyResult) {
	for _, e := range m.Entries {
		if e.Path == "" || !filepath.IsLocal(e.Path) {
			res.errorf("entry has invalid path: %q", e.Path)
			continue
		}
		full := filepath.Join(dir, e.Path)
		digest, err := api.HashFile(full)
		if err != nil {
			res.errorf("entry %s: cannot hash: %v", e.Path, err)
			continue
		}
		if e.ContentAddress == "" {
			res.warnf("entry %s has no content address", e.Path)
			continue
		}
		if !api.AddressMatches(e.ContentAddress, digest) {
			res.errorf("entry %s: content address %q does not match computed hash %q",
				e.Path, e.ContentAddress, digest)
		}
	}
}

// verifyEvidence parses the exported trail and checks the execution chain:
// one run, started before it completed, matching the manifest.
func verifyEvidence(dir string, m *Manifest, res *VerifyResult) {
	data, err := os.ReadFile(filepath.Join(dir, EvidenceFile))
	if err != nil {
		res.errorf("evidence missing: %v", err)
		return
	}
	var events []exportedEvent
	if err := json.Unmarshal(data, &events); err != nil {
		res.errorf("evidence does not parse: %v", err)
		return
	}

	startAt, completeAt := -1, -1
	nodeEvents := 0
	for i, ev := range events {
		if ev.ExecutionID != m.ExecutionID {
			res.errorf("evidence event %d belongs to run %s, manifest seals run %s",
				i, ev.ExecutionID, m.ExecutionID)
			return
		}
		switch api.EventType(ev.Type) {
		case api.EventExecutionStart:
			if startAt == -1 {
				startAt = i
			}
		case api.EventExecutionComplete:
			completeAt = i
		case api.EventNodeExecution:
			nodeEvents++
		case api.EventExecutionFailure:
			res.errorf("evidence records an execution failure")
		}
	}

	switch {
	case startAt == -1:
		res.errorf("evidence has no execution_start event")
	case completeAt == -1:
		res.errorf("evidence has no execution_complete event")
	case completeAt < startAt:
		res.errorf("execution_complete precedes execution_start")
	}
	if nodeEvents == 0 {
		res.warnf("evidence has no node_execution events")
	}
}
