// hierctl parses vendor network-device configuration text into a
// hierarchy, applies rule-driven transforms, and writes the result as
// flat dump records or CLI-style text. With -i it opens an interactive
// explorer over the parsed tree.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/netremedy/hierconf/pkg/hier"
)

func main() {
	configFile := flag.String("config", "", "configuration text file to parse")
	dumpFile := flag.String("load", "", "dump-record JSON file to load instead of parsing text")
	optionsFile := flag.String("options", "", "options YAML (full_text_sub, per_line_sub, indent_adjust, ordering, sectional_exiting)")
	tagsFile := flag.String("tags", "", "tag rules YAML to apply")
	filterFile := flag.String("filter", "", "lineage rules YAML for a filtered dump")
	applyOrder := flag.Bool("order", false, "apply ordering rules from the options")
	applyExits := flag.Bool("exits", false, "apply sectional-exiting rules from the options")
	stripNegation := flag.Bool("strip-negation", false, "match tag rules against negation-stripped text")
	aclSeq := flag.Bool("acl-seq", false, "number IPv4 access-list entries")
	aclSeqRemarks := flag.Bool("acl-seq-remarks", false, "number remark entries too (implies -acl-seq)")
	asText := flag.Bool("text", false, "write CLI-style text instead of dump JSON")
	outFile := flag.String("o", "", "output file (default stdout)")
	interactive := flag.Bool("i", false, "open the interactive explorer")
	metricsAddr := flag.String("metrics-addr", "", "expose Prometheus metrics on this address while exploring")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	if err := run(&runConfig{
		configFile:    *configFile,
		dumpFile:      *dumpFile,
		optionsFile:   *optionsFile,
		tagsFile:      *tagsFile,
		filterFile:    *filterFile,
		applyOrder:    *applyOrder,
		applyExits:    *applyExits,
		stripNegation: *stripNegation,
		aclSeq:        *aclSeq || *aclSeqRemarks,
		aclSeqRemarks: *aclSeqRemarks,
		asText:        *asText,
		outFile:       *outFile,
		interactive:   *interactive,
		metricsAddr:   *metricsAddr,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "hierctl: %v\n", err)
		os.Exit(1)
	}
}

type runConfig struct {
	configFile    string
	dumpFile      string
	optionsFile   string
	tagsFile      string
	filterFile    string
	applyOrder    bool
	applyExits    bool
	stripNegation bool
	aclSeq        bool
	aclSeqRemarks bool
	asText        bool
	outFile       string
	interactive   bool
	metricsAddr   string
}

func run(cfg *runConfig) error {
	opts, err := loadOptions(cfg.optionsFile)
	if err != nil {
		return err
	}

	tree, err := buildTree(cfg, opts)
	if err != nil {
		return err
	}

	if cfg.tagsFile != "" {
		data, err := os.ReadFile(cfg.tagsFile)
		if err != nil {
			return fmt.Errorf("read tag rules: %w", err)
		}
		rules, err := hier.LoadTagRules(data)
		if err != nil {
			return err
		}
		tree.AddTags(rules, cfg.stripNegation)
		slog.Debug("applied tag rules", "rules", len(rules))
	}
	if cfg.applyOrder {
		tree.SetOrderWeight()
	}
	if cfg.applyExits {
		tree.AddSectionalExiting()
	}
	if cfg.aclSeq {
		tree.AddACLSequenceNumbers(cfg.aclSeqRemarks)
	}

	if cfg.interactive {
		return explore(tree, cfg.metricsAddr)
	}
	return writeOutput(cfg, tree)
}

func loadOptions(path string) (*hier.Options, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read options: %w", err)
	}
	return hier.LoadOptions(data)
}

func buildTree(cfg *runConfig, opts *hier.Options) (*hier.Tree, error) {
	tree := hier.New(opts)
	switch {
	case cfg.dumpFile != "":
		data, err := os.ReadFile(cfg.dumpFile)
		if err != nil {
			return nil, fmt.Errorf("read dump: %w", err)
		}
		var records []hier.DumpLine
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("decode dump: %w", err)
		}
		if err := tree.LoadFromDump(records); err != nil {
			return nil, err
		}
	case cfg.configFile != "":
		data, err := os.ReadFile(cfg.configFile)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := tree.LoadFromString(string(data)); err != nil {
			return nil, err
		}
		stats := tree.ParseStats()
		slog.Debug("parsed configuration",
			"lines", stats.Lines, "nodes", stats.Nodes, "banners", stats.Banners)
	default:
		return nil, fmt.Errorf("one of -config or -load is required")
	}
	return tree, nil
}

func writeOutput(cfg *runConfig, tree *hier.Tree) error {
	var filter []hier.LineageRule
	if cfg.filterFile != "" {
		data, err := os.ReadFile(cfg.filterFile)
		if err != nil {
			return fmt.Errorf("read filter: %w", err)
		}
		filter, err = hier.LoadLineageRules(data)
		if err != nil {
			return err
		}
	}

	var out []byte
	if cfg.asText {
		out = []byte(tree.Format())
	} else {
		data, err := json.MarshalIndent(tree.Dump(filter), "", "  ")
		if err != nil {
			return fmt.Errorf("encode dump: %w", err)
		}
		out = append(data, '\n')
	}

	if cfg.outFile == "" {
		_, err := os.Stdout.Write(out)
		return err
	}
	return os.WriteFile(cfg.outFile, out, 0644)
}
