package docfile

import (
	"errors"
	"fmt"

	"boardkit/internal/domain"
)

// Migration transforms a document exactly one schema version forward.
// Transforms are pure and structural; the current chain is additive only
// (new fields with safe defaults), and there is no downgrade path by design.
type Migration struct {
	FromVersion int
	ToVersion   int
	Migrate     func(doc map[string]any) map[string]any
}

var (
	// ErrFutureVersion means the document was produced by a newer release.
	// Forward compatibility is explicitly unsupported: refuse, never downgrade.
	ErrFutureVersion = errors.New("document version is newer than this release supports")

	// ErrNoMigrationPath means the migration chain has a gap. The chain must
	// be total and connected or migration fails closed.
	ErrNoMigrationPath = errors.New("no migration path")
)

// DocumentVersion reads the schema version of a parsed document, defaulting
// to 0 when the field is absent or non-numeric (files that predate the
// version field).
func DocumentVersion(raw any) int {
	doc, ok := raw.(map[string]any)
	if !ok {
		return 0
	}
	v, ok := doc["version"].(float64)
	if !ok {
		return 0
	}
	return int(v)
}

// NeedsMigration reports whether a document is below the current schema version.
func NeedsMigration(raw any) bool {
	return DocumentVersion(raw) < domain.CurrentDocumentVersion
}

// MigrateDocument walks the migration chain from the document's version to
// the current one. Already-current documents pass through unchanged; future
// versions and chain gaps fail closed. A chain either completes entirely or
// fails entirely — no partial state escapes.
func MigrateDocument(raw any) (map[string]any, error) {
	doc, ok := raw.(map[string]any)
	if !ok {
		return nil, invalid("document", "not a JSON object")
	}

	version := DocumentVersion(doc)
	if version == domain.CurrentDocumentVersion {
		return doc, nil
	}
	if version > domain.CurrentDocumentVersion {
		return nil, fmt.Errorf("%w: document v%d, supported v%d", ErrFutureVersion, version, domain.CurrentDocumentVersion)
	}

	for version < domain.CurrentDocumentVersion {
		m, ok := migrationFrom(version)
		if !ok {
			return nil, fmt.Errorf("%w from v%d", ErrNoMigrationPath, version)
		}
		doc = m.Migrate(doc)
		version = m.ToVersion
		doc["version"] = float64(version)
	}

	return doc, nil
}

func migrationFrom(version int) (Migration, bool) {
	for _, m := range migrations {
		if m.FromVersion == version {
			return m, true
		}
	}
	return Migration{}, false
}
