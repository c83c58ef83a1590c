package sizegate

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// artifactFile covers both Foundry (bytecode objects) and Hardhat (bytecode strings) layouts
type artifactFile struct {
	ContractName     string          `json:"contractName"`
	SourceName       string          `json:"sourceName"`
	Bytecode         json.RawMessage `json:"bytecode"`
	DeployedBytecode json.RawMessage `json:"deployedBytecode"`
	Metadata         json.RawMessage `json:"metadata"`
}

// artifactMetadata is the solc metadata; Hardhat and old Foundry store it as a string
type artifactMetadata struct {
	Settings struct {
		CompilationTarget map[string]string `json:"compilationTarget"`
	} `json:"settings"`
}

func compilationTarget(raw json.RawMessage) map[string]string {
	if len(raw) == 0 {
		return nil
	}
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		raw = json.RawMessage(encoded)
	}
	var md artifactMetadata
	if err := json.Unmarshal(raw, &md); err != nil {
		return nil
	}
	return md.Settings.CompilationTarget
}

// MeasureArtifacts walks an artifact directory and measures every deployable contract.
// Interfaces and abstract contracts (empty bytecode) are skipped.
func MeasureArtifacts(dir string) ([]Measurement, error) {
	var out []Measurement

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(p) != ".json" || strings.HasSuffix(p, ".dbg.json") {
			return nil
		}

		m, ok, err := measureArtifact(p)
		if err != nil {
			return fmt.Errorf("failed to read artifact %s: %w", p, err)
		}
		if ok {
			out = append(out, m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func measureArtifact(p string) (Measurement, bool, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return Measurement{}, false, err
	}

	var a artifactFile
	if err := json.Unmarshal(data, &a); err != nil {
		// not every json file in the output dir is an artifact
		return Measurement{}, false, nil
	}

	initSize, err := bytecodeSize(a.Bytecode)
	if err != nil {
		return Measurement{}, false, fmt.Errorf("bytecode: %w", err)
	}
	runtimeSize, err := bytecodeSize(a.DeployedBytecode)
	if err != nil {
		return Measurement{}, false, fmt.Errorf("deployedBytecode: %w", err)
	}
	if runtimeSize == 0 && initSize == 0 {
		return Measurement{}, false, nil
	}

	m := Measurement{
		Name:        a.ContractName,
		Path:        a.SourceName,
		RuntimeSize: runtimeSize,
		InitSize:    initSize,
	}
	if m.Name == "" {
		m.Name = strings.TrimSuffix(filepath.Base(p), ".json")
	}
	if m.Path == "" {
		for source, name := range compilationTarget(a.Metadata) {
			if name == m.Name {
				m.Path = source
			}
		}
	}
	if m.Path == "" {
		// Foundry layout: out/<File>.sol/<Contract>.json
		m.Path = filepath.Base(filepath.Dir(p))
	}
	return m, true, nil
}

// bytecodeSize decodes either "0x..." or {"object": "0x..."}
func bytecodeSize(raw json.RawMessage) (int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}

	var code string
	if err := json.Unmarshal(raw, &code); err != nil {
		var obj struct {
			Object string `json:"object"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return 0, err
		}
		code = obj.Object
	}

	if !strings.HasPrefix(code, "0x") {
		code = "0x" + code
	}
	if code == "0x" {
		return 0, nil
	}
	b, err := hexutil.Decode(code)
	if err != nil {
		// unlinked library placeholders (__$...$__) aren't hex but keep the length
		return (len(code) - 2) / 2, nil
	}
	return len(b), nil
}
