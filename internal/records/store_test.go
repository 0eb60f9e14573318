package records

import (
	"errors"
	"strings"
	"testing"
)

// ─── Test helpers ────────────────────────────────────────────────────────────

// newTestStore creates a Store in a temp directory for testing.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(Config{
		DataDir:              t.TempDir(),
		MaxSearchResults:     100,
		MaxUnprocessedCrawls: 200,
	})
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// seedPerson creates a person and returns the record.
func seedPerson(t *testing.T, store *Store, given, surname string) *Person {
	t.Helper()
	p, err := store.AddPerson(AddPersonParams{GivenName: given, Surname: surname})
	if err != nil {
		t.Fatalf("seed person %s %s: %v", given, surname, err)
	}
	return p
}

// seedSource creates a minimal source and returns the record.
func seedSource(t *testing.T, store *Store) *Source {
	t.Helper()
	src, err := store.AddSource(AddSourceParams{
		SourceType: "archive",
		URL:        "https://archief.example/akte/1",
	})
	if err != nil {
		t.Fatalf("seed source: %v", err)
	}
	return src
}

// ─── Person tests ────────────────────────────────────────────────────────────

func TestAddPerson_Defaults(t *testing.T) {
	store := newTestStore(t)

	p, err := store.AddPerson(AddPersonParams{
		GivenName: "Pieter",
		Prefix:    "van",
		Surname:   "Dijk",
	})
	if err != nil {
		t.Fatalf("AddPerson: %v", err)
	}

	if p.ID == "" {
		t.Error("expected a generated person_id")
	}
	if p.ConfidenceScore != 1.0 {
		t.Errorf("confidence_score = %v, want 1.0", p.ConfidenceScore)
	}
	if p.Verified {
		t.Error("new person should not be verified")
	}
	if p.ResearchStatus != StatusUnreviewed {
		t.Errorf("research_status = %q, want %q", p.ResearchStatus, StatusUnreviewed)
	}
	if p.FullNameNormalized == nil || *p.FullNameNormalized != "pieter van dijk" {
		t.Errorf("full_name_normalized = %v, want 'pieter van dijk'", p.FullNameNormalized)
	}
}

func TestAddPerson_RequiresName(t *testing.T) {
	store := newTestStore(t)

	_, err := store.AddPerson(AddPersonParams{Gender: "m", Notes: "nameless"})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestAddPerson_KeepsCallerNormalizedName(t *testing.T) {
	store := newTestStore(t)

	p, err := store.AddPerson(AddPersonParams{
		Surname:            "Jansen",
		FullNameNormalized: "jansen, j.",
	})
	if err != nil {
		t.Fatalf("AddPerson: %v", err)
	}
	if p.FullNameNormalized == nil || *p.FullNameNormalized != "jansen, j." {
		t.Errorf("full_name_normalized = %v, want caller value kept", p.FullNameNormalized)
	}
}

func TestGetPerson_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetPerson("no-such-id")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFindPersons_MatchesAllNameFields(t *testing.T) {
	store := newTestStore(t)
	seedPerson(t, store, "Willem", "Bakker")
	seedPerson(t, store, "Bakker", "Smid")
	p3, err := store.AddPerson(AddPersonParams{
		Surname:            "Visser",
		FullNameNormalized: "de bakker, visser",
	})
	if err != nil {
		t.Fatalf("AddPerson: %v", err)
	}

	results, err := store.FindPersons("BAKKER", 10)
	if err != nil {
		t.Fatalf("FindPersons: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3 (surname, given_name and normalized matches)", len(results))
	}

	found := false
	for _, r := range results {
		if r.ID == p3.ID {
			found = true
		}
	}
	if !found {
		t.Error("normalized-name match missing from results")
	}
}

func TestFindPersons_OrderAndLimit(t *testing.T) {
	store := newTestStore(t)
	seedPerson(t, store, "Claes", "Zandstra")
	seedPerson(t, store, "Aaltje", "Aalbers")
	// Given name only — sorts after all named surnames.
	if _, err := store.AddPerson(AddPersonParams{GivenName: "Aa-only"}); err != nil {
		t.Fatalf("AddPerson: %v", err)
	}

	results, err := store.FindPersons("a", 100)
	if err != nil {
		t.Fatalf("FindPersons: %v", err)
	}
	if len(results) < 3 {
		t.Fatalf("got %d results, want at least 3", len(results))
	}
	if results[0].Surname == nil || *results[0].Surname != "Aalbers" {
		t.Errorf("first result surname = %v, want Aalbers", results[0].Surname)
	}
	last := results[len(results)-1]
	if last.Surname != nil {
		t.Errorf("last result should have NULL surname, got %v", *last.Surname)
	}

	// Limit is respected.
	limited, err := store.FindPersons("a", 1)
	if err != nil {
		t.Fatalf("FindPersons limited: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("got %d results with limit 1, want 1", len(limited))
	}
}

func TestFindPersons_EmptyQueryRejected(t *testing.T) {
	store := newTestStore(t)

	_, err := store.FindPersons("   ", 10)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestSetVerified(t *testing.T) {
	store := newTestStore(t)
	p := seedPerson(t, store, "Geert", "Mulder")

	if err := store.SetVerified(p.ID, true); err != nil {
		t.Fatalf("SetVerified: %v", err)
	}
	got, err := store.GetPerson(p.ID)
	if err != nil {
		t.Fatalf("GetPerson: %v", err)
	}
	if !got.Verified {
		t.Error("verified flag not set")
	}

	if err := store.SetVerified(p.ID, false); err != nil {
		t.Fatalf("SetVerified false: %v", err)
	}
	got, _ = store.GetPerson(p.ID)
	if got.Verified {
		t.Error("verified flag not cleared")
	}

	if err := store.SetVerified("missing", true); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing person, got %v", err)
	}
}

func TestSetResearchStatus_RejectsUnknownStatus(t *testing.T) {
	store := newTestStore(t)
	p := seedPerson(t, store, "Hendrik", "Boer")

	if err := store.SetResearchStatus(p.ID, "definitely-done", ""); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for bogus status, got %v", err)
	}

	// Status untouched after the rejected write.
	got, err := store.GetPerson(p.ID)
	if err != nil {
		t.Fatalf("GetPerson: %v", err)
	}
	if got.ResearchStatus != StatusUnreviewed {
		t.Errorf("research_status = %q after rejected write, want %q", got.ResearchStatus, StatusUnreviewed)
	}

	if err := store.SetResearchStatus(p.ID, StatusInProgress, "checking birth record"); err != nil {
		t.Fatalf("SetResearchStatus: %v", err)
	}
	got, _ = store.GetPerson(p.ID)
	if got.ResearchStatus != StatusInProgress {
		t.Errorf("research_status = %q, want %q", got.ResearchStatus, StatusInProgress)
	}
	if got.ResearchNotes == nil || *got.ResearchNotes != "checking birth record" {
		t.Errorf("research_notes = %v, want the supplied notes", got.ResearchNotes)
	}
}

func TestSetPossibleDuplicate(t *testing.T) {
	store := newTestStore(t)
	a := seedPerson(t, store, "Jan", "Jansen")
	b := seedPerson(t, store, "Johannes", "Jansen")

	if err := store.SetPossibleDuplicate(a.ID, b.ID, "same baptism date"); err != nil {
		t.Fatalf("SetPossibleDuplicate: %v", err)
	}

	got, err := store.GetPerson(a.ID)
	if err != nil {
		t.Fatalf("GetPerson: %v", err)
	}
	if got.PossibleDuplicateOf == nil || *got.PossibleDuplicateOf != b.ID {
		t.Errorf("possible_duplicate_of = %v, want %s", got.PossibleDuplicateOf, b.ID)
	}
	if got.ResearchNotes == nil || !strings.Contains(*got.ResearchNotes, "[Possible duplicate noted] same baptism date") {
		t.Errorf("research_notes = %v, want appended duplicate note", got.ResearchNotes)
	}

	// The target record is untouched.
	target, _ := store.GetPerson(b.ID)
	if target.PossibleDuplicateOf != nil {
		t.Error("duplicate pointer must not be mirrored onto the target")
	}
}

func TestSetPossibleDuplicate_SelfRejected(t *testing.T) {
	store := newTestStore(t)
	p := seedPerson(t, store, "Dirk", "Smit")

	if err := store.SetPossibleDuplicate(p.ID, p.ID, ""); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for self-duplicate, got %v", err)
	}
}

func TestSetPossibleDuplicate_BothMustExist(t *testing.T) {
	store := newTestStore(t)
	p := seedPerson(t, store, "Teunis", "Vos")

	if err := store.SetPossibleDuplicate(p.ID, "ghost", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing target, got %v", err)
	}
	if err := store.SetPossibleDuplicate("ghost", p.ID, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing subject, got %v", err)
	}
}

func TestSetPossibleDuplicate_MutualPairAllowed(t *testing.T) {
	store := newTestStore(t)
	a := seedPerson(t, store, "Grietje", "Postma")
	b := seedPerson(t, store, "Margaretha", "Postma")

	if err := store.SetPossibleDuplicate(a.ID, b.ID, ""); err != nil {
		t.Fatalf("first direction: %v", err)
	}
	if err := store.SetPossibleDuplicate(b.ID, a.ID, ""); err != nil {
		t.Fatalf("reverse direction should be allowed: %v", err)
	}
}

// ─── Deletion semantics ──────────────────────────────────────────────────────

func TestDeletePerson_CascadesOwnedRows(t *testing.T) {
	store := newTestStore(t)
	p := seedPerson(t, store, "Evert", "Hofman")
	other := seedPerson(t, store, "Neeltje", "Hofman")

	if _, err := store.AddEvent(AddEventParams{PersonID: p.ID, EventType: "birth", Year: 1851}); err != nil {
		t.Fatalf("AddEvent: %v", err)
	}
	if _, err := store.AddProfession(AddProfessionParams{PersonID: p.ID, Title: "timmerman"}); err != nil {
		t.Fatalf("AddProfession: %v", err)
	}
	if _, err := store.AddAddress(AddAddressParams{PersonID: p.ID, City: "Utrecht"}); err != nil {
		t.Fatalf("AddAddress: %v", err)
	}
	if _, err := store.AddRelationship(AddRelationshipParams{
		PersonIDA: p.ID, PersonIDB: other.ID, RelationType: "sibling",
	}); err != nil {
		t.Fatalf("AddRelationship: %v", err)
	}
	comment, err := store.AddComment(AddCommentParams{PersonID: p.ID, Text: "possible twin"})
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}

	if err := store.DeletePerson(p.ID); err != nil {
		t.Fatalf("DeletePerson: %v", err)
	}

	if _, err := store.GetPerson(p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("person still retrievable after delete: %v", err)
	}
	// Owned rows are gone.
	if evs, _ := store.ListPersonEvents(other.ID); len(evs) != 0 {
		t.Errorf("unexpected events on surviving person: %d", len(evs))
	}
	rels, err := store.ListPersonRelationships(other.ID)
	if err != nil {
		t.Fatalf("ListPersonRelationships: %v", err)
	}
	if len(rels) != 0 {
		t.Errorf("relationship edge survived person delete: %d", len(rels))
	}
	// Weak rows survive with the link nulled.
	got, err := store.db.Query(`SELECT person_id FROM comments WHERE comment_id = ?`, comment.ID)
	if err != nil {
		t.Fatalf("query comment: %v", err)
	}
	defer got.Close()
	if !got.Next() {
		t.Fatal("comment deleted; expected it to survive with person_id nulled")
	}
	var personID *string
	if err := got.Scan(&personID); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if personID != nil {
		t.Errorf("comment person_id = %v, want NULL", *personID)
	}
}

func TestDeleteSource_NullifiesCitations(t *testing.T) {
	store := newTestStore(t)
	p := seedPerson(t, store, "Aaltje", "Kuiper")
	src := seedSource(t, store)

	ev, err := store.AddEvent(AddEventParams{
		PersonID: p.ID, EventType: "marriage", Year: 1880, SourceID: src.ID,
	})
	if err != nil {
		t.Fatalf("AddEvent: %v", err)
	}

	if err := store.DeleteSource(src.ID); err != nil {
		t.Fatalf("DeleteSource: %v", err)
	}

	events, err := store.ListPersonEvents(p.ID)
	if err != nil {
		t.Fatalf("ListPersonEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("event count = %d after source delete, want 1", len(events))
	}
	if events[0].ID != ev.ID {
		t.Fatalf("unexpected event %s", events[0].ID)
	}
	if events[0].SourceID != nil {
		t.Errorf("event source_id = %v after source delete, want NULL", *events[0].SourceID)
	}
}

// ─── Source tests ────────────────────────────────────────────────────────────

func TestAddSource_LinksKnownCrawlURL(t *testing.T) {
	store := newTestStore(t)

	entry, err := store.RecordCrawl("https://archief.example/index", 200, "", "")
	if err != nil {
		t.Fatalf("RecordCrawl: %v", err)
	}

	src, err := store.AddSource(AddSourceParams{
		SourceType: "website",
		CrawlURL:   "https://archief.example/index",
	})
	if err != nil {
		t.Fatalf("AddSource: %v", err)
	}
	if src.CrawlID == nil || *src.CrawlID != entry.ID {
		t.Errorf("crawl_id = %v, want %d", src.CrawlID, entry.ID)
	}

	// Unknown crawl URL: link silently skipped.
	src2, err := store.AddSource(AddSourceParams{CrawlURL: "https://never.example/seen"})
	if err != nil {
		t.Fatalf("AddSource with unknown crawl url: %v", err)
	}
	if src2.CrawlID != nil {
		t.Errorf("crawl_id = %v for unknown url, want nil", *src2.CrawlID)
	}
}

func TestFindSourcesByURL(t *testing.T) {
	store := newTestStore(t)
	url := "https://archief.example/akte/7"

	if _, err := store.AddSource(AddSourceParams{URL: url, Notes: "first"}); err != nil {
		t.Fatalf("AddSource: %v", err)
	}
	if _, err := store.AddSource(AddSourceParams{URL: url, Notes: "second"}); err != nil {
		t.Fatalf("AddSource: %v", err)
	}

	results, err := store.FindSourcesByURL(url)
	if err != nil {
		t.Fatalf("FindSourcesByURL: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d sources, want 2 (source URLs are not unique)", len(results))
	}
}
