package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/vedika/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/vedika/internal/adapters/driven/storage/vector"
	"github.com/custodia-labs/vedika/internal/core/domain"
	"github.com/custodia-labs/vedika/internal/core/ports/driven"
	"github.com/custodia-labs/vedika/internal/logger"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// DefaultFileName is the database file created in the config directory.
const DefaultFileName = "index.db"

// Config holds configuration for the SQLite vector index.
type Config struct {
	// Path is the database file (default: ~/.vedika/index.db).
	Path string

	// Collection is the named document set (default: isro_data).
	Collection string

	// Embedder computes embeddings for storage and query (required).
	Embedder driven.EmbeddingService

	// Distance is the query metric (default: l2).
	Distance domain.DistanceMetric
}

// CollectionInfo describes a stored collection.
type CollectionInfo struct {
	Name           string
	EmbeddingModel string
	Dimension      int
	Distance       domain.DistanceMetric
	Documents      int
}

// VectorIndex is a durable driven.VectorIndex stored in SQLite.
type VectorIndex struct {
	mu         sync.RWMutex
	db         *sql.DB
	path       string
	collection string
	embedder   driven.EmbeddingService
	metric     domain.DistanceMetric
	distance   vector.DistanceFunc
	closed     bool
}

// NewVectorIndex opens (or creates) the index database and applies migrations.
// The collection itself is created by the first write or rebuild.
func NewVectorIndex(cfg Config) (*VectorIndex, error) {
	if cfg.Embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if cfg.Collection == "" {
		cfg.Collection = domain.DefaultCollection
	}
	if cfg.Distance == "" {
		cfg.Distance = domain.DistanceL2
	}
	distance, err := vector.ForMetric(cfg.Distance)
	if err != nil {
		return nil, err
	}

	if cfg.Path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		cfg.Path = filepath.Join(home, ".vedika", DefaultFileName)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", cfg.Path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	idx := &VectorIndex{
		db:         db,
		path:       cfg.Path,
		collection: cfg.Collection,
		embedder:   cfg.Embedder,
		metric:     cfg.Distance,
		distance:   distance,
	}

	if err := idx.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return idx, nil
}

// Path returns the database file path.
func (idx *VectorIndex) Path() string {
	return idx.path
}

// Upsert embeds and stores documents in groups, replacing existing ids.
// Creates the collection if it does not exist yet.
func (idx *VectorIndex) Upsert(ctx context.Context, docs []domain.Document) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.closed {
		return domain.ErrIndexUnavailable
	}
	if len(docs) == 0 {
		return nil
	}

	info, err := idx.collectionInfo(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		if err := idx.createCollection(ctx); err != nil {
			return err
		}
		info = &CollectionInfo{Name: idx.collection, EmbeddingModel: idx.embedder.ModelName()}
	} else if err != nil {
		return err
	}
	if err := idx.checkModel(info); err != nil {
		return err
	}

	for start := 0; start < len(docs); start += domain.IngestWriteGroupSize {
		end := min(start+domain.IngestWriteGroupSize, len(docs))
		if err := idx.upsertGroup(ctx, info, docs[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (idx *VectorIndex) upsertGroup(ctx context.Context, info *CollectionInfo, docs []domain.Document) error {
	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.EmbeddingText
	}
	embeddings, err := idx.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding documents: %w", err)
	}
	if len(embeddings) != len(docs) {
		return fmt.Errorf("embedding documents: got %d vectors for %d texts", len(embeddings), len(docs))
	}

	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op

	if info.Dimension == 0 {
		info.Dimension = len(embeddings[0])
		if _, err := tx.ExecContext(ctx,
			"UPDATE collections SET dimension = ? WHERE name = ?", info.Dimension, idx.collection); err != nil {
			return fmt.Errorf("recording dimension: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (collection, id, embedding_text, metadata, embedding, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(collection, id) DO UPDATE SET
			embedding_text = excluded.embedding_text,
			metadata = excluded.metadata,
			embedding = excluded.embedding,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, doc := range docs {
		if len(embeddings[i]) != info.Dimension {
			return fmt.Errorf("%w: collection %q stores %d dimensions, embedder returned %d",
				domain.ErrEmbeddingMismatch, idx.collection, info.Dimension, len(embeddings[i]))
		}
		metadataJSON, err := json.Marshal(doc.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling metadata: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, idx.collection, doc.ID, doc.EmbeddingText,
			string(metadataJSON), float32SliceToBytes(embeddings[i])); err != nil {
			return fmt.Errorf("saving document %s: %w", doc.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Query returns the k documents nearest to text.
func (idx *VectorIndex) Query(ctx context.Context, text string, k int) ([]domain.QueryResult, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be at least 1", domain.ErrInvalidInput)
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.closed {
		return nil, domain.ErrIndexUnavailable
	}

	info, err := idx.collectionInfo(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: collection %q does not exist", domain.ErrIndexUnavailable, idx.collection)
	}
	if err != nil {
		return nil, err
	}
	if err := idx.checkModel(info); err != nil {
		return nil, err
	}

	embedding, err := idx.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if info.Dimension != 0 && len(embedding) != info.Dimension {
		return nil, fmt.Errorf("%w: collection %q stores %d dimensions, query has %d",
			domain.ErrEmbeddingMismatch, idx.collection, info.Dimension, len(embedding))
	}

	entries, err := idx.loadEntries(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debug("Scanning %d documents in %s", len(entries), idx.collection)

	return vector.Nearest(embedding, entries, k, idx.distance), nil
}

func (idx *VectorIndex) loadEntries(ctx context.Context) ([]vector.Entry, error) {
	rows, err := idx.db.QueryContext(ctx, `
		SELECT id, embedding_text, metadata, embedding
		FROM documents WHERE collection = ?
	`, idx.collection)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var entries []vector.Entry
	for rows.Next() {
		var (
			doc          domain.Document
			metadataJSON string
			blob         []byte
		)
		if err := rows.Scan(&doc.ID, &doc.EmbeddingText, &metadataJSON, &blob); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		if err := json.Unmarshal([]byte(metadataJSON), &doc.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshalling metadata for %s: %w", doc.ID, err)
		}
		entries = append(entries, vector.Entry{Document: doc, Embedding: bytesToFloat32Slice(blob)})
	}
	return entries, rows.Err()
}

// RecreateCollection drops the collection and its documents, then creates
// it empty with the current embedding model. A failed drop is logged and
// ignored.
func (idx *VectorIndex) RecreateCollection(ctx context.Context) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.closed {
		return domain.ErrIndexUnavailable
	}

	if err := idx.dropCollection(ctx); err != nil {
		logger.Warn("Dropping collection %s: %v", idx.collection, err)
	}
	return idx.createCollection(ctx)
}

// dropCollection removes the collection row and its documents atomically.
func (idx *VectorIndex) dropCollection(ctx context.Context) error {
	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE collection = ?", idx.collection); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM collections WHERE name = ?", idx.collection); err != nil {
		return err
	}
	return tx.Commit()
}

func (idx *VectorIndex) createCollection(ctx context.Context) error {
	_, err := idx.db.ExecContext(ctx, `
		INSERT INTO collections (name, embedding_model, dimension, distance)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			embedding_model = excluded.embedding_model,
			dimension = excluded.dimension,
			distance = excluded.distance
	`, idx.collection, idx.embedder.ModelName(), 0, idx.metric.String())
	if err != nil {
		return fmt.Errorf("creating collection %s: %w", idx.collection, err)
	}
	logger.Debug("Created collection %s (%s)", idx.collection, idx.embedder.ModelName())
	return nil
}

// Count returns the number of documents in the collection.
// A missing collection counts as zero.
func (idx *VectorIndex) Count(ctx context.Context) (int, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.closed {
		return 0, domain.ErrIndexUnavailable
	}

	var count int
	err := idx.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM documents WHERE collection = ?", idx.collection).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return count, nil
}

// Ping checks that the database answers, the collection exists and was
// built with the configured embedder.
func (idx *VectorIndex) Ping(ctx context.Context) error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.closed {
		return domain.ErrIndexUnavailable
	}
	if err := idx.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
	}
	info, err := idx.collectionInfo(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
	}
	if err := idx.checkModel(info); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIndexUnavailable, err)
	}
	return nil
}

// Info describes the collection and its size.
// Returns domain.ErrNotFound if the collection has not been created.
func (idx *VectorIndex) Info(ctx context.Context) (*CollectionInfo, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.closed {
		return nil, domain.ErrIndexUnavailable
	}

	info, err := idx.collectionInfo(ctx)
	if err != nil {
		return nil, err
	}
	err = idx.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM documents WHERE collection = ?", idx.collection).Scan(&info.Documents)
	if err != nil {
		return nil, fmt.Errorf("counting documents: %w", err)
	}
	return info, nil
}

// Close closes the database connection.
func (idx *VectorIndex) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.closed {
		return nil
	}
	idx.closed = true
	return idx.db.Close()
}

func (idx *VectorIndex) collectionInfo(ctx context.Context) (*CollectionInfo, error) {
	info := &CollectionInfo{Name: idx.collection}
	var distance string
	err := idx.db.QueryRowContext(ctx, `
		SELECT embedding_model, dimension, distance FROM collections WHERE name = ?
	`, idx.collection).Scan(&info.EmbeddingModel, &info.Dimension, &distance)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading collection: %w", err)
	}
	info.Distance = domain.DistanceMetric(distance)
	return info, nil
}

func (idx *VectorIndex) checkModel(info *CollectionInfo) error {
	if info.EmbeddingModel != idx.embedder.ModelName() {
		return fmt.Errorf("%w: collection %q was built with %q, configured embedder is %q",
			domain.ErrEmbeddingMismatch, info.Name, info.EmbeddingModel, idx.embedder.ModelName())
	}
	return nil
}

// migrate runs all pending migrations and records each applied version.
func (idx *VectorIndex) migrate(fsys embed.FS) error {
	_, err := idx.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := idx.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := idx.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := idx.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
