package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/forklab/gofork/internal/config"
	"github.com/forklab/gofork/internal/project"
	"github.com/forklab/gofork/internal/store"
)

var (
	outFile    string
	presetName string
	stateCSV   string
	limit      int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "forkctl",
		Short: "inspect and repair dynamical-systems project files",
	}

	inspectCmd := &cobra.Command{
		Use:   "inspect [project.json]",
		Short: "print a project summary and its node tree",
		Args:  cobra.ExactArgs(1),
		RunE:  inspectProject,
	}

	normalizeCmd := &cobra.Command{
		Use:   "normalize [project.json]",
		Short: "heal a project file and write the normalized form",
		Args:  cobra.ExactArgs(1),
		RunE:  normalizeProject,
	}
	normalizeCmd.Flags().StringVarP(&outFile, "out", "o", "", "output path (default stdout)")

	newCmd := &cobra.Command{
		Use:   "new [name]",
		Short: "create a fresh project file",
		Args:  cobra.ExactArgs(1),
		RunE:  newProject,
	}
	newCmd.Flags().StringVar(&presetName, "preset", "", "start from a named system preset")
	newCmd.Flags().StringVarP(&outFile, "out", "o", "", "output path (default stdout)")

	validateCmd := &cobra.Command{
		Use:   "validate [config.yaml]",
		Short: "check a system configuration file",
		Args:  cobra.ExactArgs(1),
		RunE:  validateConfig,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in system presets",
		RunE:  listPresets,
	}

	nearestCmd := &cobra.Command{
		Use:   "nearest [project.json]",
		Short: "find branch points nearest a state-space location",
		Args:  cobra.ExactArgs(1),
		RunE:  nearestPoints,
	}
	nearestCmd.Flags().StringVar(&stateCSV, "state", "", "query state, comma separated (required)")
	nearestCmd.Flags().IntVarP(&limit, "limit", "k", 5, "number of hits")
	nearestCmd.MarkFlagRequired("state")

	rootCmd.AddCommand(inspectCmd, normalizeCmd, newCmd, validateCmd, presetsCmd, nearestCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadProject(path string) (*project.System, *project.Editor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	var sys project.System
	if err := json.Unmarshal(data, &sys); err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	editor := project.NewEditor(nil, nil)
	return editor.Normalize(&sys), editor, nil
}

func writeProject(sys *project.System) error {
	data, err := json.MarshalIndent(sys, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if outFile == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(outFile, data, 0o644)
}

func inspectProject(cmd *cobra.Command, args []string) error {
	sys, _, err := loadProject(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("project: %s (%s)\n", sys.Name, sys.ID)
	fmt.Printf("system:  %s, %d vars, %d params, solver=%s\n",
		sys.Config.Kind, len(sys.Config.VarNames), len(sys.Config.ParamNames), sys.Config.Solver)
	fmt.Printf("counts:  %d nodes, %d objects, %d branches, %d scenes, %d diagrams\n\n",
		len(sys.Nodes), len(sys.Objects), len(sys.Branches), len(sys.Scenes), len(sys.Diagrams))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NODE\tKIND\tNAME\tVISIBLE")
	for _, id := range sys.RootIDs {
		printTree(w, sys, id, 0)
	}
	return w.Flush()
}

func printTree(w *tabwriter.Writer, sys *project.System, id string, depth int) {
	n, ok := sys.Nodes[id]
	if !ok {
		return
	}
	fmt.Fprintf(w, "%s%s\t%s\t%s\t%v\n",
		strings.Repeat("  ", depth), n.ID, n.Kind, n.Name, n.Visible())
	for _, child := range n.Children {
		printTree(w, sys, child, depth+1)
	}
}

func normalizeProject(cmd *cobra.Command, args []string) error {
	sys, _, err := loadProject(args[0])
	if err != nil {
		return err
	}
	return writeProject(sys)
}

func newProject(cmd *cobra.Command, args []string) error {
	editor := project.NewEditor(nil, nil)
	sys := editor.NewSystem(args[0])

	if presetName != "" {
		cfg, ok := config.Preset(presetName)
		if !ok {
			return fmt.Errorf("unknown preset: %s (see 'forkctl presets')", presetName)
		}
		cfg.Name = args[0]
		sys = editor.UpdateSystemConfig(sys, cfg)
	}
	return writeProject(sys)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(args[0])
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	fmt.Printf("ok: %s (%s, %d equations)\n", cfg.Name, cfg.Kind, len(cfg.Equations))
	if unused := config.UnusedNames(cfg); len(unused) > 0 {
		fmt.Printf("warning: names never referenced by the equations: %s\n", strings.Join(unused, ", "))
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	names := make([]string, 0, len(config.Presets))
	for name := range config.Presets {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tKIND\tVARS\tPARAMS")
	for _, name := range names {
		cfg := config.Presets[name]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			name, cfg.Kind, strings.Join(cfg.VarNames, ","), strings.Join(cfg.ParamNames, ","))
	}
	return w.Flush()
}

func nearestPoints(cmd *cobra.Command, args []string) error {
	sys, editor, err := loadProject(args[0])
	if err != nil {
		return err
	}

	parts := strings.Split(stateCSV, ",")
	state := make([]float64, len(parts))
	for i, p := range parts {
		state[i], err = strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return fmt.Errorf("bad state component %q: %w", p, err)
		}
	}

	st, err := store.NewSQLiteStore(editor)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.SaveSystem(sys); err != nil {
		return err
	}
	hits, err := st.NearestBranchPoints(sys.ID, state, limit)
	if err != nil {
		return err
	}
	if len(hits) == 0 {
		fmt.Println("no branch points found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BRANCH\tPOINT\tDISTANCE")
	for _, h := range hits {
		fmt.Fprintf(w, "%s\t%d\t%.6f\n", h.BranchID, h.PointIndex, h.Distance)
	}
	return w.Flush()
}
