// Copyright (c) 2022 the didpoop authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/didpoop/didpoop/idgen"
	"github.com/didpoop/didpoop/models"
	"github.com/didpoop/didpoop/testutil"
)

func TestRecordPoop(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	gen := idgen.New()
	handler := NewPoopHandler(db, cfg, gen)

	alice := testutil.CreateTestUser(t, db, gen, "alice@example.com", "Alice")
	bob := testutil.CreateTestUser(t, db, gen, "bob@example.com", "Bob")
	carol := testutil.CreateTestUser(t, db, gen, "carol@example.com", "Carol")
	dave := testutil.CreateTestUser(t, db, gen, "dave@example.com", "Dave")
	aliceCookie := testutil.LoginTestUser(t, db, cfg, gen, alice.ID)
	bobCookie := testutil.LoginTestUser(t, db, cfg, gen, bob.ID)
	carolCookie := testutil.LoginTestUser(t, db, cfg, gen, carol.ID)
	daveCookie := testutil.LoginTestUser(t, db, cfg, gen, dave.ID)

	rexID := testutil.CreateTestCreature(t, db, gen, alice.ID, "Rex")
	rexIDStr := strconv.FormatInt(rexID, 10)
	testutil.GrantTestAccess(t, db, gen, rexID, alice.ID, bob.ID, models.KindCaretaker)
	testutil.GrantTestAccess(t, db, gen, rexID, alice.ID, carol.ID, models.KindObserver)

	tests := []struct {
		name           string
		creatureID     string
		cookie         *http.Cookie
		expectedStatus int
	}{
		{
			name:           "creator records",
			creatureID:     rexIDStr,
			cookie:         aliceCookie,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "caretaker records",
			creatureID:     rexIDStr,
			cookie:         bobCookie,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "observer cannot record",
			creatureID:     rexIDStr,
			cookie:         carolCookie,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "no grant at all",
			creatureID:     rexIDStr,
			cookie:         daveCookie,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "unknown creature",
			creatureID:     "123456789",
			cookie:         aliceCookie,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "invalid id",
			creatureID:     "not-a-number",
			cookie:         aliceCookie,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/creatures/"+tt.creatureID+"/poops", nil, tt.cookie)
			req.SetPathValue("id", tt.creatureID)
			w := httptest.NewRecorder()

			handler.RecordPoop(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus == http.StatusCreated {
				var poop models.Poop
				testutil.AssertJSON(t, w, &poop)
				if poop.ID == 0 {
					t.Error("Expected non-zero poop id")
				}
				if poop.CreatureID != rexID {
					t.Errorf("Expected creature id %d, got %d", rexID, poop.CreatureID)
				}
			}
		})
	}
}

func TestListPoops(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	gen := idgen.New()
	handler := NewPoopHandler(db, cfg, gen)

	alice := testutil.CreateTestUser(t, db, gen, "alice@example.com", "Alice")
	cookie := testutil.LoginTestUser(t, db, cfg, gen, alice.ID)

	rexID := testutil.CreateTestCreature(t, db, gen, alice.ID, "Rex")
	rexIDStr := strconv.FormatInt(rexID, 10)

	var ids []int64
	for i := 0; i < 5; i++ {
		ids = append(ids, testutil.RecordTestPoop(t, db, gen, rexID, alice.ID))
	}

	req := testutil.MakeRequest("GET", "/creatures/"+rexIDStr+"/poops", nil, cookie)
	req.SetPathValue("id", rexIDStr)
	w := httptest.NewRecorder()

	handler.ListPoops(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var poops []models.Poop
	testutil.AssertJSON(t, w, &poops)
	if len(poops) != len(ids) {
		t.Fatalf("Expected %d poops, got %d", len(ids), len(poops))
	}

	// Newest first: IDs allocated later are strictly larger
	for i := 1; i < len(poops); i++ {
		if poops[i-1].ID <= poops[i].ID {
			t.Errorf("Expected descending ids, got %d before %d", poops[i-1].ID, poops[i].ID)
		}
	}
}

func TestListPoopsExcludesDeleted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	gen := idgen.New()
	handler := NewPoopHandler(db, cfg, gen)

	alice := testutil.CreateTestUser(t, db, gen, "alice@example.com", "Alice")
	cookie := testutil.LoginTestUser(t, db, cfg, gen, alice.ID)

	rexID := testutil.CreateTestCreature(t, db, gen, alice.ID, "Rex")
	rexIDStr := strconv.FormatInt(rexID, 10)

	keepID := testutil.RecordTestPoop(t, db, gen, rexID, alice.ID)
	goneID := testutil.RecordTestPoop(t, db, gen, rexID, alice.ID)

	_, err := db.Exec("UPDATE poops SET deleted = TRUE WHERE id = $1", goneID)
	if err != nil {
		t.Fatalf("Failed to delete poop: %v", err)
	}

	req := testutil.MakeRequest("GET", "/creatures/"+rexIDStr+"/poops", nil, cookie)
	req.SetPathValue("id", rexIDStr)
	w := httptest.NewRecorder()

	handler.ListPoops(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var poops []models.Poop
	testutil.AssertJSON(t, w, &poops)
	if len(poops) != 1 {
		t.Fatalf("Expected 1 poop, got %d", len(poops))
	}
	if poops[0].ID != keepID {
		t.Errorf("Expected poop %d, got %d", keepID, poops[0].ID)
	}
}

func TestDeletePoop(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	gen := idgen.New()
	handler := NewPoopHandler(db, cfg, gen)

	alice := testutil.CreateTestUser(t, db, gen, "alice@example.com", "Alice")
	bob := testutil.CreateTestUser(t, db, gen, "bob@example.com", "Bob")
	aliceCookie := testutil.LoginTestUser(t, db, cfg, gen, alice.ID)
	bobCookie := testutil.LoginTestUser(t, db, cfg, gen, bob.ID)

	rexID := testutil.CreateTestCreature(t, db, gen, alice.ID, "Rex")
	testutil.GrantTestAccess(t, db, gen, rexID, alice.ID, bob.ID, models.KindCaretaker)

	poopID := testutil.RecordTestPoop(t, db, gen, rexID, alice.ID)
	poopIDStr := strconv.FormatInt(poopID, 10)

	tests := []struct {
		name           string
		poopID         string
		cookie         *http.Cookie
		expectedStatus int
	}{
		{
			name:           "only the recorder deletes",
			poopID:         poopIDStr,
			cookie:         bobCookie,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "unknown poop",
			poopID:         "123456789",
			cookie:         aliceCookie,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "recorder deletes",
			poopID:         poopIDStr,
			cookie:         aliceCookie,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "already deleted",
			poopID:         poopIDStr,
			cookie:         aliceCookie,
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("DELETE", "/poops/"+tt.poopID, nil, tt.cookie)
			req.SetPathValue("id", tt.poopID)
			w := httptest.NewRecorder()

			handler.DeletePoop(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}
}
