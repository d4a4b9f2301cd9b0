package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/chzyer/readline"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/netremedy/hierconf/pkg/hier"
	"github.com/netremedy/hierconf/pkg/metrics"
)

// explorer navigates a parsed tree like a filesystem: sections are
// directories, the current node is the working directory.
type explorer struct {
	tree    *hier.Tree
	current *hier.Node
}

func explore(tree *hier.Tree, metricsAddr string) error {
	if metricsAddr != "" {
		registry := prometheus.NewRegistry()
		if err := registry.Register(metrics.NewCollector(tree)); err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
		mux := http.NewServeMux()
		mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				slog.Error("metrics listener failed", "addr", metricsAddr, "err", err)
			}
		}()
		slog.Info("serving metrics", "addr", metricsAddr)
	}

	e := &explorer{tree: tree, current: tree.Root}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          e.prompt(),
		HistoryFile:     "/tmp/hierctl_history",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    e.completer(),
	})
	if err != nil {
		return fmt.Errorf("readline: %w", err)
	}
	defer rl.Close()

	fmt.Println("hierctl explorer — 'help' lists commands, 'exit' leaves")
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}
		e.execute(rl.Stdout(), line)
		rl.SetPrompt(e.prompt())
	}
}

func (e *explorer) prompt() string {
	path := e.path()
	if len(path) > 40 {
		path = "..." + path[len(path)-37:]
	}
	return fmt.Sprintf("hierctl:%s> ", path)
}

func (e *explorer) path() string {
	if e.current.IsRoot() {
		return "/"
	}
	var parts []string
	for _, n := range e.current.Lineage() {
		parts = append(parts, n.Text)
	}
	return "/" + strings.Join(parts, "/")
}

func (e *explorer) execute(w io.Writer, line string) {
	cmd, arg := line, ""
	if i := strings.IndexByte(line, ' '); i >= 0 {
		cmd, arg = line[:i], strings.TrimSpace(line[i+1:])
	}

	switch cmd {
	case "ls":
		for _, child := range e.current.Children() {
			marker := " "
			if len(child.Children()) > 0 {
				marker = "+"
			}
			fmt.Fprintf(w, "%s %s\n", marker, firstLine(child.Text))
		}
	case "cd":
		if arg == "" {
			e.current = e.tree.Root
			return
		}
		child := e.childByPrefix(arg)
		if child == nil {
			fmt.Fprintf(w, "no child matching %q\n", arg)
			return
		}
		e.current = child
	case "up":
		if !e.current.IsRoot() {
			e.current = e.current.Parent()
		}
	case "top":
		e.current = e.tree.Root
	case "pwd":
		fmt.Fprintln(w, e.path())
	case "show":
		sub := hier.New(e.tree.Options)
		if e.current.IsRoot() {
			fmt.Fprint(w, e.tree.Format())
			return
		}
		sub.Root.AddDeepCopyOf(e.current, false)
		fmt.Fprint(w, sub.Format())
	case "tags":
		tags := e.current.Tags()
		if e.current.IsRoot() {
			tags = e.tree.Tags()
		}
		if len(tags) == 0 {
			fmt.Fprintln(w, "(no tags)")
			return
		}
		fmt.Fprintln(w, strings.Join(tags, " "))
	case "dump":
		data, err := json.MarshalIndent(e.tree.Dump(nil), "", "  ")
		if err != nil {
			fmt.Fprintf(w, "encode: %v\n", err)
			return
		}
		fmt.Fprintf(w, "%s\n", data)
	case "help":
		fmt.Fprint(w, helpText)
	default:
		fmt.Fprintf(w, "unknown command %q — try 'help'\n", cmd)
	}
}

// childByPrefix resolves arg against the current node's children by
// exact text first, then by unique prefix.
func (e *explorer) childByPrefix(arg string) *hier.Node {
	if exact := e.current.ChildByText(arg); exact != nil {
		return exact
	}
	var match *hier.Node
	for _, child := range e.current.Children() {
		if strings.HasPrefix(child.Text, arg) {
			if match != nil {
				return nil // ambiguous
			}
			match = child
		}
	}
	return match
}

func (e *explorer) completer() readline.AutoCompleter {
	childTexts := func(string) []string {
		var out []string
		for _, child := range e.current.Children() {
			out = append(out, firstLine(child.Text))
		}
		return out
	}
	return readline.NewPrefixCompleter(
		readline.PcItem("ls"),
		readline.PcItem("cd", readline.PcItemDynamic(childTexts)),
		readline.PcItem("up"),
		readline.PcItem("top"),
		readline.PcItem("pwd"),
		readline.PcItem("show"),
		readline.PcItem("tags"),
		readline.PcItem("dump"),
		readline.PcItem("help"),
		readline.PcItem("exit"),
	)
}

// firstLine trims banner nodes to their first line for listings.
func firstLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return text[:i] + " ..."
	}
	return text
}

const helpText = `commands:
  ls            list children of the current node (+ marks sections)
  cd <text>     descend into a child (exact text or unique prefix)
  cd            return to the root
  up            ascend one level
  top           return to the root
  pwd           print the current path
  show          render the current subtree as CLI text
  tags          print the current node's tags
  dump          print the whole tree as dump-record JSON
  exit          leave the explorer
`
