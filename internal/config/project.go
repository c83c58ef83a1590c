package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/trebuchet-org/solwatch/internal/domain"
	"github.com/trebuchet-org/solwatch/internal/domain/config"
	"gopkg.in/yaml.v3"
)

// ConfigFileNames are tried in order when no explicit file is given
var ConfigFileNames = []string{"solwatch.toml", "solwatch.yaml", "solwatch.yml"}

type pathsSection struct {
	Sources   string `toml:"sources" yaml:"sources"`
	Tests     string `toml:"tests" yaml:"tests"`
	Artifacts string `toml:"artifacts" yaml:"artifacts"`
}

// projectFileTOML is the raw shape of solwatch.toml
type projectFileTOML struct {
	Paths         pathsSection                     `toml:"paths"`
	Solidity      config.SolidityConfig            `toml:"solidity"`
	Networks      map[string]config.NetworkProfile `toml:"networks"`
	Watcher       map[string]config.WatchScope     `toml:"watcher"`
	ContractSizer config.SizeGatePolicy            `toml:"contract_sizer"`
	Typechain     config.TypechainConfig           `toml:"typechain"`
	NamedAccounts map[string]map[string]any        `toml:"named_accounts"`
	Tasks         map[string]config.TaskCommand    `toml:"tasks"`
}

// projectFileYAML keeps ordered sections as nodes since yaml maps lose order
type projectFileYAML struct {
	Paths         pathsSection                  `yaml:"paths"`
	Solidity      config.SolidityConfig         `yaml:"solidity"`
	Networks      yaml.Node                     `yaml:"networks"`
	Watcher       yaml.Node                     `yaml:"watcher"`
	ContractSizer config.SizeGatePolicy         `yaml:"contract_sizer"`
	Typechain     config.TypechainConfig        `yaml:"typechain"`
	NamedAccounts map[string]map[string]any     `yaml:"named_accounts"`
	Tasks         map[string]config.TaskCommand `yaml:"tasks"`
}

// FindConfigFile returns the first project file present in root
func FindConfigFile(root string) (string, error) {
	for _, name := range ConfigFileNames {
		p := filepath.Join(root, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("no project config found in %s (looked for %s)", root, strings.Join(ConfigFileNames, ", "))
}

// LoadProjectConfig reads, expands and validates the project file.
// .env and .env.local next to it are loaded first so credentials can
// reference environment variables.
func LoadProjectConfig(path string, log *slog.Logger) (*config.ProjectConfig, error) {
	if log == nil {
		log = slog.Default()
	}
	loadEnvFiles(filepath.Dir(path), log)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg *config.ProjectConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		cfg, err = decodeYAML(data)
	default:
		cfg, err = decodeTOML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	cfg.Path = path

	if err := finishProjectConfig(cfg, log); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadEnvFiles(dir string, log *slog.Logger) {
	for _, name := range []string{".env", ".env.local"} {
		envFile := filepath.Join(dir, name)
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			log.Warn("failed to load env file", "file", envFile, "error", err)
		}
	}
}

func decodeTOML(data []byte) (*config.ProjectConfig, error) {
	var raw projectFileTOML
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&raw)
	if err != nil {
		return nil, duplicateOverrideTOML(err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}

	cfg := &config.ProjectConfig{
		Solidity:      raw.Solidity,
		ContractSizer: raw.ContractSizer,
		Typechain:     raw.Typechain,
		Tasks:         raw.Tasks,
		Sources:       raw.Paths.Sources,
		Tests:         raw.Paths.Tests,
		Artifacts:     raw.Paths.Artifacts,
	}

	// MetaData.Keys preserves file order, which maps don't
	networkOrder := tableOrder(md, "networks")
	if err := checkOrdered("networks", networkOrder, raw.Networks, domain.ErrInvalidNetworkProfile); err != nil {
		return nil, err
	}
	for _, name := range networkOrder {
		cfg.Networks = append(cfg.Networks, config.NetworkEntry{Name: name, Profile: raw.Networks[name]})
	}

	watchOrder := tableOrder(md, "watcher")
	if err := checkOrdered("watcher", watchOrder, raw.Watcher, domain.ErrInvalidWatchScope); err != nil {
		return nil, err
	}
	for _, name := range watchOrder {
		scope := raw.Watcher[name]
		scope.Name = name
		cfg.Watchers = append(cfg.Watchers, scope)
	}

	accounts, err := parseNamedAccounts(raw.NamedAccounts)
	if err != nil {
		return nil, err
	}
	cfg.NamedAccounts = accounts
	return cfg, nil
}

// tableOrder lists the children of section in declaration order. A child
// declared as [section.x], as an inline table or through dotted keys
// (x.url = ...) is listed at its first appearance.
func tableOrder(md toml.MetaData, section string) []string {
	var names []string
	for _, key := range md.Keys() {
		if len(key) >= 2 && key[0] == section && !slices.Contains(names, key[1]) {
			names = append(names, key[1])
		}
	}
	return names
}

// checkOrdered fails when a decoded entry has no position in the file,
// which would otherwise drop it from the ordered config
func checkOrdered[T any](section string, order []string, decoded map[string]T, sentinel error) error {
	var missing []string
	for name := range decoded {
		if !slices.Contains(order, name) {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return domain.NewLoadError(section+"."+missing[0], sentinel, "declaration order could not be determined")
}

const (
	tomlRedefinedPrefix = "Key '"
	tomlRedefinedSuffix = "' has already been defined."
	overridesSection    = "solidity.overrides."
)

// duplicateOverrideTOML turns the parser's redefinition error for an
// override path into the same LoadError the compiler table raises
func duplicateOverrideTOML(err error) error {
	var perr toml.ParseError
	if !errors.As(err, &perr) {
		return err
	}
	msg := perr.Message
	if !strings.HasPrefix(msg, tomlRedefinedPrefix) || !strings.HasSuffix(msg, tomlRedefinedSuffix) {
		return err
	}
	key := strings.TrimSuffix(strings.TrimPrefix(msg, tomlRedefinedPrefix), tomlRedefinedSuffix)
	if !strings.HasPrefix(key, overridesSection) {
		return err
	}
	path := strings.TrimPrefix(key, overridesSection)
	if unquoted, uerr := strconv.Unquote(path); uerr == nil {
		path = unquoted
	}
	return domain.NewLoadError(fmt.Sprintf("solidity.overrides.%q", path), domain.ErrDuplicateOverrideKey, "declared twice (line %d)", perr.Position.Line)
}

func decodeYAML(data []byte) (*config.ProjectConfig, error) {
	if err := checkYAMLOverrideKeys(data); err != nil {
		return nil, err
	}

	var raw projectFileYAML
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}

	cfg := &config.ProjectConfig{
		Solidity:      raw.Solidity,
		ContractSizer: raw.ContractSizer,
		Typechain:     raw.Typechain,
		Tasks:         raw.Tasks,
		Sources:       raw.Paths.Sources,
		Tests:         raw.Paths.Tests,
		Artifacts:     raw.Paths.Artifacts,
	}

	err := eachMappingEntry(&raw.Networks, func(name string, node *yaml.Node) error {
		var profile config.NetworkProfile
		if err := node.Decode(&profile); err != nil {
			return fmt.Errorf("networks.%s: %w", name, err)
		}
		cfg.Networks = append(cfg.Networks, config.NetworkEntry{Name: name, Profile: profile})
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = eachMappingEntry(&raw.Watcher, func(name string, node *yaml.Node) error {
		var scope config.WatchScope
		if err := node.Decode(&scope); err != nil {
			return fmt.Errorf("watcher.%s: %w", name, err)
		}
		scope.Name = name
		cfg.Watchers = append(cfg.Watchers, scope)
		return nil
	})
	if err != nil {
		return nil, err
	}

	accounts, err := parseNamedAccounts(raw.NamedAccounts)
	if err != nil {
		return nil, err
	}
	cfg.NamedAccounts = accounts
	return cfg, nil
}

// checkYAMLOverrideKeys reports a repeated solidity.overrides path before
// the strict decode rejects it with a generic mapping error
func checkYAMLOverrideKeys(data []byte) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil
	}
	overrides := mappingChild(mappingChild(doc.Content[0], "solidity"), "overrides")
	if overrides == nil || overrides.Kind != yaml.MappingNode {
		return nil
	}

	seen := make(map[string]int)
	for i := 0; i+1 < len(overrides.Content); i += 2 {
		keyNode := overrides.Content[i]
		if first, ok := seen[keyNode.Value]; ok {
			return domain.NewLoadError(fmt.Sprintf("solidity.overrides.%q", keyNode.Value), domain.ErrDuplicateOverrideKey,
				"declared twice (lines %d and %d)", first, keyNode.Line)
		}
		seen[keyNode.Value] = keyNode.Line
	}
	return nil
}

func mappingChild(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

func eachMappingEntry(node *yaml.Node, fn func(key string, value *yaml.Node) error) error {
	if node.Kind == 0 {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if err := fn(node.Content[i].Value, node.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

func parseNamedAccounts(raw map[string]map[string]any) (map[string]config.AccountBinding, error) {
	bindings := make(map[string]config.AccountBinding, len(raw))
	roles := make([]string, 0, len(raw))
	for role := range raw {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	for _, role := range roles {
		binding := config.AccountBinding{Networks: make(map[string]config.AccountRef)}
		keys := make([]string, 0, len(raw[role]))
		for k := range raw[role] {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, key := range keys {
			ref, err := ParseAccountRef(raw[role][key])
			if err != nil {
				return nil, domain.NewLoadError(fmt.Sprintf("named_accounts.%s.%s", role, key), domain.ErrInvalidAccountRef, "%v", err)
			}
			if key == "default" {
				binding.Default = &ref
			} else {
				binding.Networks[key] = ref
			}
		}
		bindings[role] = binding
	}
	return bindings, nil
}

// finishProjectConfig applies defaults, expands environment references and
// validates the parts that don't belong to a dedicated table
func finishProjectConfig(cfg *config.ProjectConfig, log *slog.Logger) error {
	if cfg.Sources == "" {
		cfg.Sources = "contracts"
	}
	if cfg.Tests == "" {
		cfg.Tests = "test"
	}
	if cfg.Artifacts == "" {
		cfg.Artifacts = "out"
	}

	for i := range cfg.Networks {
		p := &cfg.Networks[i].Profile
		p.URL = os.ExpandEnv(p.URL)
		for j, acct := range p.Accounts {
			p.Accounts[j] = os.ExpandEnv(acct)
		}
	}

	for i := range cfg.Watchers {
		if err := validateWatchScope(&cfg.Watchers[i]); err != nil {
			return err
		}
	}

	for name := range cfg.Tasks {
		if !slices.Contains(config.KnownTasks, name) {
			return domain.NewLoadError("tasks."+name, domain.ErrUnknownTask, "")
		}
		if len(cfg.Tasks[name].Command) == 0 {
			return domain.NewLoadError("tasks."+name+".command", domain.ErrUnknownTask, "empty command")
		}
	}

	networks := make(map[string]bool, len(cfg.Networks))
	for _, n := range cfg.Networks {
		networks[n.Name] = true
	}
	for role, binding := range cfg.NamedAccounts {
		for network := range binding.Networks {
			if !networks[network] {
				log.Warn("named account references an undeclared network", "role", role, "network", network)
			}
		}
	}
	return nil
}

func validateWatchScope(scope *config.WatchScope) error {
	key := "watcher." + scope.Name
	if len(scope.Tasks) == 0 {
		return domain.NewLoadError(key+".tasks", domain.ErrInvalidWatchScope, "no tasks")
	}
	if len(scope.Files) == 0 {
		return domain.NewLoadError(key+".files", domain.ErrInvalidWatchScope, "no files")
	}
	for i, task := range scope.Tasks {
		if !slices.Contains(config.KnownTasks, task) {
			return domain.NewLoadError(fmt.Sprintf("%s.tasks[%d]", key, i), domain.ErrUnknownTask, "%q", task)
		}
	}
	if scope.DebounceMs < 0 {
		return domain.NewLoadError(key+".debounce_ms", domain.ErrInvalidWatchScope, "negative debounce")
	}
	scope.Debounce = config.DefaultDebounce
	if scope.DebounceMs > 0 {
		scope.Debounce = time.Duration(scope.DebounceMs) * time.Millisecond
	}
	return nil
}
