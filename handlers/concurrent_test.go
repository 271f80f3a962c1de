// Copyright (c) 2022 the didpoop authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/didpoop/didpoop/idgen"
	"github.com/didpoop/didpoop/models"
	"github.com/didpoop/didpoop/testutil"
)

// TestConcurrentPoopRecording verifies that simultaneous recordings
// against one creature all succeed with distinct primary keys. Many of
// them land in the same millisecond, so distinctness rests entirely on
// the ID sequence counter.
func TestConcurrentPoopRecording(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	gen := idgen.New()
	handler := NewPoopHandler(db, cfg, gen)

	alice := testutil.CreateTestUser(t, db, gen, "alice@example.com", "Alice")
	cookie := testutil.LoginTestUser(t, db, cfg, gen, alice.ID)

	rexID := testutil.CreateTestCreature(t, db, gen, alice.ID, "Rex")
	rexIDStr := strconv.FormatInt(rexID, 10)

	numRecorders := 20
	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numRecorders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			req := testutil.MakeRequest("POST", "/creatures/"+rexIDStr+"/poops", nil, cookie)
			req.SetPathValue("id", rexIDStr)
			w := httptest.NewRecorder()

			handler.RecordPoop(w, req)

			if w.Code == http.StatusCreated {
				successCount.Add(1)
			}
		}()
	}

	wg.Wait()

	if int(successCount.Load()) != numRecorders {
		t.Errorf("Expected %d successful recordings, got %d", numRecorders, successCount.Load())
	}

	// Every insert got a distinct ID, or COUNT and COUNT(DISTINCT) diverge
	var total, distinct int
	err := db.QueryRow("SELECT COUNT(*), COUNT(DISTINCT id) FROM poops WHERE creature_id = $1", rexID).Scan(&total, &distinct)
	if err != nil {
		t.Fatalf("Failed to count poops: %v", err)
	}
	if total != numRecorders {
		t.Errorf("Expected %d poop rows, got %d", numRecorders, total)
	}
	if distinct != total {
		t.Errorf("Expected %d distinct ids, got %d", total, distinct)
	}
}

// TestConcurrentSignups verifies that simultaneous signups with the same
// email produce exactly one account.
func TestConcurrentSignups(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	gen := idgen.New()
	handler := NewUserHandler(db, cfg, gen)

	numAttempts := 5
	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numAttempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			req := testutil.MakeRequest("POST", "/signup", models.SignupRequest{
				Email:    "contested@example.com",
				Name:     "Racer",
				Password: "long enough pw",
			})
			w := httptest.NewRecorder()

			handler.Signup(w, req)

			if w.Code == http.StatusCreated {
				successCount.Add(1)
			}
		}()
	}

	wg.Wait()

	if successCount.Load() != 1 {
		t.Errorf("Expected exactly 1 successful signup, got %d", successCount.Load())
	}

	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM users WHERE email = $1", "contested@example.com").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to count users: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 user row, got %d", count)
	}
}

// TestParallelCreatures verifies that operations on different creatures
// don't interfere.
func TestParallelCreatures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	gen := idgen.New()
	creatureHandler := NewCreatureHandler(db, cfg, gen)
	poopHandler := NewPoopHandler(db, cfg, gen)

	alice := testutil.CreateTestUser(t, db, gen, "alice@example.com", "Alice")
	cookie := testutil.LoginTestUser(t, db, cfg, gen, alice.ID)

	numCreatures := 5
	var wg sync.WaitGroup

	for i := 0; i < numCreatures; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			req := testutil.MakeRequest("POST", "/creatures", models.CreateCreatureRequest{
				Name: "Creature " + string(rune('A'+idx)),
			}, cookie)
			w := httptest.NewRecorder()
			creatureHandler.CreateCreature(w, req)

			if w.Code != http.StatusCreated {
				t.Errorf("Creature %d creation failed: %d", idx, w.Code)
				return
			}

			var creature models.CreatureRelation
			testutil.AssertJSON(t, w, &creature)
			idStr := strconv.FormatInt(creature.ID, 10)

			// Record a few poops against this creature
			for j := 0; j < 3; j++ {
				req := testutil.MakeRequest("POST", "/creatures/"+idStr+"/poops", nil, cookie)
				req.SetPathValue("id", idStr)
				w := httptest.NewRecorder()
				poopHandler.RecordPoop(w, req)

				if w.Code != http.StatusCreated {
					t.Errorf("Creature %d poop %d failed: %d", idx, j, w.Code)
					return
				}
			}
		}(i)
	}

	wg.Wait()

	var creatureCount, poopCount int
	err := db.QueryRow("SELECT COUNT(*) FROM creatures").Scan(&creatureCount)
	if err != nil {
		t.Fatalf("Failed to count creatures: %v", err)
	}
	err = db.QueryRow("SELECT COUNT(*) FROM poops").Scan(&poopCount)
	if err != nil {
		t.Fatalf("Failed to count poops: %v", err)
	}

	if creatureCount != numCreatures {
		t.Errorf("Expected %d creatures, got %d", numCreatures, creatureCount)
	}
	if poopCount != numCreatures*3 {
		t.Errorf("Expected %d poops, got %d", numCreatures*3, poopCount)
	}
}
