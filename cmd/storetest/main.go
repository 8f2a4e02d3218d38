package main

import (
	"fmt"
	"log"

	"github.com/forklab/gofork/internal/project"
	"github.com/forklab/gofork/internal/store"
)

func main() {
	fmt.Println("Testing MemStore...")
	testStore(store.NewMemStore(project.NewEditor(nil, nil)))

	fmt.Println("\nTesting SQLiteStore...")
	s, err := store.NewSQLiteStore(project.NewEditor(nil, nil))
	if err != nil {
		log.Fatalf("NewSQLiteStore failed: %v", err)
	}
	testStore(s)

	fmt.Println("\n✅ All tests passed!")
}

func testStore(s store.Storer) {
	defer s.Close()

	editor := project.NewEditor(nil, nil)
	sys := editor.NewSystem("Smoke Test")
	sys, _ = editor.AddObject(sys, &project.AnalysisObject{
		Type: project.TypeEquilibrium, Name: "origin", State: []float64{0, 0},
	})

	if err := s.SaveSystem(sys); err != nil {
		log.Fatalf("SaveSystem failed: %v", err)
	}
	fmt.Println("  ✓ SaveSystem works")

	retrieved, err := s.GetSystem(sys.ID)
	if err != nil {
		log.Fatalf("GetSystem failed: %v", err)
	}
	if retrieved == nil {
		log.Fatal("GetSystem returned nil")
	}
	fmt.Println("  ✓ GetSystem works")

	count, err := s.CountSystems()
	if err != nil {
		log.Fatalf("CountSystems failed: %v", err)
	}
	if count != 1 {
		log.Fatalf("CountSystems expected 1, got %d", count)
	}
	fmt.Println("  ✓ CountSystems works")

	if err := s.DeleteSystem(sys.ID); err != nil {
		log.Fatalf("DeleteSystem failed: %v", err)
	}
	fmt.Println("  ✓ DeleteSystem works")
}
