//go:build js && wasm

package main

import (
	"context"
	"encoding/json"
	"syscall/js"

	"github.com/hack-pad/hackpadfs"
	"github.com/hack-pad/hackpadfs/indexeddb"

	"github.com/forklab/gofork/internal/project"
	"github.com/forklab/gofork/pkg/bundle"
	"github.com/forklab/gofork/pkg/eqscan"
	"github.com/forklab/gofork/pkg/pointindex"
)

// Version info
const Version = "0.1.0"

// Global state
var editor *project.Editor
var current *project.System
var projectFS hackpadfs.FS
var pointIndex *pointindex.Index

func main() {
	editor = project.NewEditor(nil, nil)
	println("[GoFork] WASM Ready v" + Version)

	js.Global().Set("GoFork", js.ValueOf(map[string]interface{}{
		"version":   js.FuncOf(getVersion),
		"newSystem": js.FuncOf(newSystem),
		"loadJSON":  js.FuncOf(loadJSON),
		"getJSON":   js.FuncOf(getJSON),
		// Tree API
		"addObject":      js.FuncOf(addObject),
		"addBranch":      js.FuncOf(addBranch),
		"addScene":       js.FuncOf(addScene),
		"addDiagram":     js.FuncOf(addDiagram),
		"renameNode":     js.FuncOf(renameNode),
		"toggleVisible":  js.FuncOf(toggleVisible),
		"toggleExpanded": js.FuncOf(toggleExpanded),
		"moveNode":       js.FuncOf(moveNode),
		"reorderNode":    js.FuncOf(reorderNode),
		"removeNode":     js.FuncOf(removeNode),
		"selectNode":     js.FuncOf(selectNode),
		// Collection API
		"updateObject":       js.FuncOf(updateObject),
		"updateBranch":       js.FuncOf(updateBranch),
		"updateScene":        js.FuncOf(updateScene),
		"updateDiagram":      js.FuncOf(updateDiagram),
		"updateConfig":       js.FuncOf(updateConfig),
		"updateRender":       js.FuncOf(updateRender),
		"updateRenderTarget": js.FuncOf(updateRenderTarget),
		"updateLayout":       js.FuncOf(updateLayout),
		"setViewportHeights": js.FuncOf(setViewportHeights),
		// Equation scanning
		"scanEquations": js.FuncOf(scanEquations),
		// Persistence (IndexedDB)
		"initStorage": js.FuncOf(initStorage),
		"saveProject": js.FuncOf(saveProject),
		"loadProject": js.FuncOf(loadProject),
		// Branch point index
		"indexBranchPoints": js.FuncOf(indexBranchPoints),
		"nearestPoints":     js.FuncOf(nearestPoints),
	}))

	select {}
}

// getVersion returns the module version
func getVersion(this js.Value, args []js.Value) interface{} {
	return Version
}

// newSystem: [name string]
func newSystem(this js.Value, args []js.Value) interface{} {
	name := "Untitled"
	if len(args) > 0 && args[0].String() != "" {
		name = args[0].String()
	}
	current = editor.NewSystem(name)
	return currentJSON()
}

// loadJSON replaces the working document with a serialized snapshot.
// The snapshot is normalized on the way in, so legacy documents heal.
// Args: [systemJSON string]
func loadJSON(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("requires 1 arg: systemJSON")
	}
	var sys project.System
	if err := json.Unmarshal([]byte(args[0].String()), &sys); err != nil {
		return errorResult("invalid system json: " + err.Error())
	}
	current = editor.Normalize(&sys)
	return currentJSON()
}

func getJSON(this js.Value, args []js.Value) interface{} {
	if current == nil {
		return errorResult("no system loaded")
	}
	return currentJSON()
}

// addObject: [objectJSON string]
func addObject(this js.Value, args []js.Value) interface{} {
	if msg := ready(args, 1); msg != "" {
		return errorResult(msg)
	}
	var obj project.AnalysisObject
	if err := json.Unmarshal([]byte(args[0].String()), &obj); err != nil {
		return errorResult("invalid object json: " + err.Error())
	}
	var id string
	current, id = editor.AddObject(current, &obj)
	return idResult(id)
}

// addBranch: [branchJSON string, parentID string]
func addBranch(this js.Value, args []js.Value) interface{} {
	if msg := ready(args, 2); msg != "" {
		return errorResult(msg)
	}
	var br project.Branch
	if err := json.Unmarshal([]byte(args[0].String()), &br); err != nil {
		return errorResult("invalid branch json: " + err.Error())
	}
	var id string
	current, id = editor.AddBranch(current, &br, args[1].String())
	return idResult(id)
}

// addScene: [name string]
func addScene(this js.Value, args []js.Value) interface{} {
	if msg := ready(args, 1); msg != "" {
		return errorResult(msg)
	}
	var id string
	current, id = editor.AddScene(current, args[0].String())
	return idResult(id)
}

// addDiagram: [name string]
func addDiagram(this js.Value, args []js.Value) interface{} {
	if msg := ready(args, 1); msg != "" {
		return errorResult(msg)
	}
	var id string
	current, id = editor.AddDiagram(current, args[0].String())
	return idResult(id)
}

// renameNode: [nodeID string, newName string]
func renameNode(this js.Value, args []js.Value) interface{} {
	if msg := ready(args, 2); msg != "" {
		return errorResult(msg)
	}
	current = editor.RenameNode(current, args[0].String(), args[1].String())
	return currentJSON()
}

// toggleVisible: [nodeID string]
func toggleVisible(this js.Value, args []js.Value) interface{} {
	if msg := ready(args, 1); msg != "" {
		return errorResult(msg)
	}
	current = editor.ToggleNodeVisibility(current, args[0].String())
	return currentJSON()
}

// toggleExpanded: [nodeID string]
func toggleExpanded(this js.Value, args []js.Value) interface{} {
	if msg := ready(args, 1); msg != "" {
		return errorResult(msg)
	}
	current = editor.ToggleNodeExpanded(current, args[0].String())
	return currentJSON()
}

// moveNode: [nodeID string, direction "up"|"down"]
func moveNode(this js.Value, args []js.Value) interface{} {
	if msg := ready(args, 2); msg != "" {
		return errorResult(msg)
	}
	dir := project.MoveUp
	if args[1].String() == "down" {
		dir = project.MoveDown
	}
	current = editor.MoveNode(current, args[0].String(), dir)
	return currentJSON()
}

// reorderNode: [nodeID string, targetID string]
func reorderNode(this js.Value, args []js.Value) interface{} {
	if msg := ready(args, 2); msg != "" {
		return errorResult(msg)
	}
	current = editor.ReorderNode(current, args[0].String(), args[1].String())
	return currentJSON()
}

// removeNode: [nodeID string]
func removeNode(this js.Value, args []js.Value) interface{} {
	if msg := ready(args, 1); msg != "" {
		return errorResult(msg)
	}
	current = editor.RemoveNode(current, args[0].String())
	return currentJSON()
}

// selectNode: [nodeID string] ("" clears the selection)
func selectNode(this js.Value, args []js.Value) interface{} {
	if msg := ready(args, 1); msg != "" {
		return errorResult(msg)
	}
	current = editor.SelectNode(current, args[0].String())
	return currentJSON()
}

// updateObject: [nodeID string, patchJSON string]
func updateObject(this js.Value, args []js.Value) interface{} {
	if msg := ready(args, 2); msg != "" {
		return errorResult(msg)
	}
	var patch project.ObjectPatch
	if err := json.Unmarshal([]byte(args[1].String()), &patch); err != nil {
		return errorResult("invalid patch json: " + err.Error())
	}
	current = editor.UpdateObject(current, args[0].String(), patch)
	return currentJSON()
}

// updateBranch: [nodeID string, branchJSON string]
func updateBranch(this js.Value, args []js.Value) interface{} {
	if msg := ready(args, 2); msg != "" {
		return errorResult(msg)
	}
	var br project.Branch
	if err := json.Unmarshal([]byte(args[1].String()), &br); err != nil {
		return errorResult("invalid branch json: " + err.Error())
	}
	current = editor.UpdateBranch(current, args[0].String(), &br)
	return currentJSON()
}

// updateScene: [sceneID string, patchJSON string]
func updateScene(this js.Value, args []js.Value) interface{} {
	if msg := ready(args, 2); msg != "" {
		return errorResult(msg)
	}
	var patch project.ScenePatch
	if err := json.Unmarshal([]byte(args[1].String()), &patch); err != nil {
		return errorResult("invalid patch json: " + err.Error())
	}
	current = editor.UpdateScene(current, args[0].String(), patch)
	return currentJSON()
}

// updateDiagram: [diagramID string, patchJSON string]
func updateDiagram(this js.Value, args []js.Value) interface{} {
	if msg := ready(args, 2); msg != "" {
		return errorResult(msg)
	}
	var patch project.DiagramPatch
	if err := json.Unmarshal([]byte(args[1].String()), &patch); err != nil {
		return errorResult("invalid patch json: " + err.Error())
	}
	current = editor.UpdateDiagram(current, args[0].String(), patch)
	return currentJSON()
}

// updateConfig: [configJSON string]
func updateConfig(this js.Value, args []js.Value) interface{} {
	if msg := ready(args, 1); msg != "" {
		return errorResult(msg)
	}
	var cfg project.SystemConfig
	if err := json.Unmarshal([]byte(args[0].String()), &cfg); err != nil {
		return errorResult("invalid config json: " + err.Error())
	}
	current = editor.UpdateSystemConfig(current, cfg)
	return currentJSON()
}

// updateRender: [nodeID string, patchJSON string]
func updateRender(this js.Value, args []js.Value) interface{} {
	if msg := ready(args, 2); msg != "" {
		return errorResult(msg)
	}
	var patch project.RenderPatch
	if err := json.Unmarshal([]byte(args[1].String()), &patch); err != nil {
		return errorResult("invalid patch json: " + err.Error())
	}
	current = editor.UpdateNodeRender(current, args[0].String(), patch)
	return currentJSON()
}

// updateRenderTarget: [objectID string, targetJSON string]
// Pass "null" to clear the target.
func updateRenderTarget(this js.Value, args []js.Value) interface{} {
	if msg := ready(args, 2); msg != "" {
		return errorResult(msg)
	}
	var target *project.RenderTarget
	raw := args[1].String()
	if raw != "" && raw != "null" {
		target = &project.RenderTarget{}
		if err := json.Unmarshal([]byte(raw), target); err != nil {
			return errorResult("invalid target json: " + err.Error())
		}
	}
	current = editor.UpdateLimitCycleRenderTarget(current, args[0].String(), target)
	return currentJSON()
}

// updateLayout: [patchJSON string]
func updateLayout(this js.Value, args []js.Value) interface{} {
	if msg := ready(args, 1); msg != "" {
		return errorResult(msg)
	}
	var patch project.LayoutPatch
	if err := json.Unmarshal([]byte(args[0].String()), &patch); err != nil {
		return errorResult("invalid patch json: " + err.Error())
	}
	current = editor.UpdateLayout(current, patch)
	return currentJSON()
}

// setViewportHeights: [heightsJSON string] (map of diagram id -> pixels)
func setViewportHeights(this js.Value, args []js.Value) interface{} {
	if msg := ready(args, 1); msg != "" {
		return errorResult(msg)
	}
	var heights map[string]float64
	if err := json.Unmarshal([]byte(args[0].String()), &heights); err != nil {
		return errorResult("invalid heights json: " + err.Error())
	}
	current = editor.UpdateViewportHeights(current, heights)
	return currentJSON()
}

// scanEquations reports which variable and parameter names the current
// equations actually reference.
// Returns: {"used": [...], "unused": [...]}
func scanEquations(this js.Value, args []js.Value) interface{} {
	if current == nil {
		return errorResult("no system loaded")
	}
	names := append([]string{}, current.Config.VarNames...)
	names = append(names, current.Config.ParamNames...)
	sc := eqscan.New(names)
	used := sc.Used(current.Config.Equations)

	usedNames := make([]string, 0, len(names))
	for _, n := range names {
		if used[n] {
			usedNames = append(usedNames, n)
		}
	}
	response := map[string]interface{}{
		"used":   usedNames,
		"unused": sc.Unused(current.Config.Equations),
	}
	jsonBytes, _ := json.Marshal(response)
	return string(jsonBytes)
}

// initStorage opens the IndexedDB-backed filesystem used by
// saveProject/loadProject and the branch point index.
// Args: [] (uses the default "gofork" database)
func initStorage(this js.Value, args []js.Value) interface{} {
	fs, err := indexeddb.NewFS(context.Background(), "gofork", indexeddb.Options{})
	if err != nil {
		return errorResult("failed to create idb fs: " + err.Error())
	}
	projectFS = fs

	pointIndex, err = pointindex.New(fs, "points.bin")
	if err != nil {
		return errorResult("failed to open point index: " + err.Error())
	}
	return successResult("storage initialized")
}

// saveProject: [path string]
func saveProject(this js.Value, args []js.Value) interface{} {
	if projectFS == nil {
		return errorResult("storage not initialized")
	}
	if msg := ready(args, 1); msg != "" {
		return errorResult(msg)
	}
	if err := bundle.Export(projectFS, args[0].String(), current); err != nil {
		return errorResult("save failed: " + err.Error())
	}
	return successResult("saved")
}

// loadProject: [path string]
func loadProject(this js.Value, args []js.Value) interface{} {
	if projectFS == nil {
		return errorResult("storage not initialized")
	}
	if len(args) < 1 {
		return errorResult("requires 1 arg: path")
	}
	sys, err := bundle.Import(projectFS, args[0].String(), editor)
	if err != nil {
		return errorResult("load failed: " + err.Error())
	}
	current = sys
	return currentJSON()
}

// indexBranchPoints feeds every point of a branch into the HNSW index
// so nearestPoints can answer state-space proximity queries.
// Args: [branchID string]
func indexBranchPoints(this js.Value, args []js.Value) interface{} {
	if pointIndex == nil {
		return errorResult("storage not initialized")
	}
	if msg := ready(args, 1); msg != "" {
		return errorResult(msg)
	}
	br, ok := current.Branches[args[0].String()]
	if !ok {
		return errorResult("unknown branch: " + args[0].String())
	}
	points := make([][]float64, len(br.Points))
	for i, p := range br.Points {
		points[i] = p.State
	}
	if err := pointIndex.AddBranch(args[0].String(), points); err != nil {
		return errorResult("index failed: " + err.Error())
	}
	if err := pointIndex.Save(); err != nil {
		return errorResult("save failed: " + err.Error())
	}
	return successResult("indexed")
}

// nearestPoints: [stateJSON string, k int]
// Returns: JSON array of {branchId, pointIndex} refs
func nearestPoints(this js.Value, args []js.Value) interface{} {
	if pointIndex == nil {
		return errorResult("storage not initialized")
	}
	if len(args) < 2 {
		return errorResult("requires 2 args: stateJSON, k")
	}
	var state []float64
	if err := json.Unmarshal([]byte(args[0].String()), &state); err != nil {
		return errorResult("invalid state json: " + err.Error())
	}
	refs, err := pointIndex.Search(state, args[1].Int())
	if err != nil {
		return errorResult("search failed: " + err.Error())
	}
	jsonBytes, _ := json.Marshal(refs)
	return string(jsonBytes)
}

// ready checks the shared preconditions of the mutation exports.
func ready(args []js.Value, n int) string {
	if current == nil {
		return "no system loaded"
	}
	if len(args) < n {
		return "missing arguments"
	}
	return ""
}

func currentJSON() interface{} {
	jsonBytes, err := json.Marshal(current)
	if err != nil {
		return errorResult(err.Error())
	}
	return string(jsonBytes)
}

func idResult(id string) interface{} {
	result := map[string]interface{}{
		"id":     id,
		"system": json.RawMessage(mustJSON(current)),
	}
	jsonBytes, _ := json.Marshal(result)
	return string(jsonBytes)
}

func mustJSON(sys *project.System) []byte {
	jsonBytes, _ := json.Marshal(sys)
	return jsonBytes
}

// Helper: Create error result
func errorResult(msg string) interface{} {
	result := map[string]interface{}{
		"error": msg,
	}
	jsonBytes, _ := json.Marshal(result)
	return string(jsonBytes)
}

// Helper: Create success result
func successResult(msg string) interface{} {
	result := map[string]interface{}{
		"success": msg,
	}
	jsonBytes, _ := json.Marshal(result)
	return string(jsonBytes)
}
