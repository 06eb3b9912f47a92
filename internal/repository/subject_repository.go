package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"sync"

	"github.com/rs/zerolog"
	"github.com/stemsi/subject-catalog/internal/model"
)

// ErrSubjectNotFound is returned when no subject has the requested ID.
var ErrSubjectNotFound = errors.New("subject not found")

const (
	// subjectsField is the top-level document field holding the collection.
	subjectsField = "subject"
	// lastIDField keeps the highest ID ever assigned so deleted IDs are not reused.
	lastIDField = "subject_last_id"
)

// SubjectRepository is the collection store for subjects.
type SubjectRepository interface {
	GetAll(ctx context.Context) ([]model.Subject, error)
	GetByID(ctx context.Context, id int) (*model.Subject, error)
	Create(ctx context.Context, s *model.Subject) error
	// Update loads the subject with the given ID, applies mutate and writes
	// the result back. A mutate error aborts without writing.
	Update(ctx context.Context, id int, mutate func(*model.Subject) error) (*model.Subject, error)
	Delete(ctx context.Context, id int) error
}

type subjectRepository struct {
	path string
	mu   sync.Mutex
	log  zerolog.Logger
}

// NewSubjectRepository creates a store backed by the JSON document at path.
// The file does not need to exist yet.
func NewSubjectRepository(path string, log zerolog.Logger) SubjectRepository {
	return &subjectRepository{
		path: path,
		log:  log.With().Str("component", "subject_repository").Str("path", path).Logger(),
	}
}

// document is the whole backing file. Top-level fields and their order are
// kept, and every record in the collection stays in its raw form, so a
// rewrite never drops data owned by someone else.
type document struct {
	keys    []string
	fields  map[string]json.RawMessage
	records []record
	lastID  int
}

// record is one element of the collection. Elements that do not decode as a
// subject are invisible to readers but written back untouched.
type record struct {
	raw     json.RawMessage
	subject model.Subject
	valid   bool
}

func (d *document) subjects() []model.Subject {
	out := make([]model.Subject, 0, len(d.records))
	for _, rec := range d.records {
		if rec.valid {
			out = append(out, rec.subject)
		}
	}
	return out
}

func (d *document) indexOf(id int) int {
	return slices.IndexFunc(d.records, func(rec record) bool {
		return rec.valid && rec.subject.ID == id
	})
}

func (d *document) maxID() int {
	highest := d.lastID
	for _, rec := range d.records {
		if rec.valid {
			highest = max(highest, rec.subject.ID)
		}
	}
	return highest
}

func (r *subjectRepository) GetAll(ctx context.Context) ([]model.Subject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return nil, err
	}
	return doc.subjects(), nil
}

func (r *subjectRepository) GetByID(ctx context.Context, id int) (*model.Subject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return nil, err
	}
	i := doc.indexOf(id)
	if i < 0 {
		return nil, ErrSubjectNotFound
	}
	s := doc.records[i].subject
	return &s, nil
}

func (r *subjectRepository) Create(ctx context.Context, s *model.Subject) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return err
	}

	s.ID = doc.maxID() + 1
	raw, err := encodeJSON(s)
	if err != nil {
		return fmt.Errorf("encode subject: %w", err)
	}

	doc.records = append(doc.records, record{raw: raw, subject: *s, valid: true})
	doc.lastID = s.ID
	return r.save(doc)
}

func (r *subjectRepository) Update(ctx context.Context, id int, mutate func(*model.Subject) error) (*model.Subject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return nil, err
	}
	i := doc.indexOf(id)
	if i < 0 {
		return nil, ErrSubjectNotFound
	}

	updated := doc.records[i].subject
	if err := mutate(&updated); err != nil {
		return nil, err
	}
	// The ID is immutable regardless of what mutate did.
	updated.ID = id

	raw, err := encodeJSON(updated)
	if err != nil {
		return nil, fmt.Errorf("encode subject: %w", err)
	}
	doc.records[i] = record{raw: raw, subject: updated, valid: true}
	if err := r.save(doc); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *subjectRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return err
	}
	i := doc.indexOf(id)
	if i < 0 {
		return ErrSubjectNotFound
	}

	// Remember the deleted ID so it is never handed out again.
	doc.lastID = doc.maxID()
	doc.records = slices.Delete(doc.records, i, i+1)
	return r.save(doc)
}

// load reads and parses the whole backing file. A missing file is an empty
// collection; a "subject" field that is not an array reads as empty.
func (r *subjectRepository) load() (*document, error) {
	doc := &document{fields: map[string]json.RawMessage{}}

	raw, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return doc, nil
		}
		return nil, fmt.Errorf("read data file: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return doc, nil
	}

	if err := decodeObject(raw, doc); err != nil {
		return nil, fmt.Errorf("parse data file: %w", err)
	}

	if list, ok := doc.fields[subjectsField]; ok && isArray(list) {
		var elems []json.RawMessage
		if err := json.Unmarshal(list, &elems); err != nil {
			return nil, fmt.Errorf("parse subjects: %w", err)
		}
		doc.records = make([]record, 0, len(elems))
		for i, elem := range elems {
			rec := record{raw: elem}
			if err := decodeSubject(elem, &rec.subject); err != nil {
				r.log.Warn().Err(err).Int("index", i).Msg("skipping subject record that does not fit the schema")
			} else {
				rec.valid = true
			}
			doc.records = append(doc.records, rec)
		}
	} else if ok {
		r.log.Warn().Msg("subject field is not an array, treating as empty")
	}

	if v, ok := doc.fields[lastIDField]; ok {
		// A malformed high-water mark falls back to the max existing ID.
		_ = json.Unmarshal(v, &doc.lastID)
	}

	return doc, nil
}

// decodeObject reads a top-level JSON object into doc, remembering the order
// of its keys. A top-level null reads as an empty object.
func decodeObject(raw []byte, doc *document) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("top level is not an object")
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return err
		}
		if _, seen := doc.fields[key]; !seen {
			doc.keys = append(doc.keys, key)
		}
		doc.fields[key] = value
	}

	_, err = dec.Token()
	return err
}

func decodeSubject(raw json.RawMessage, s *model.Subject) error {
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		return errors.New("record is not an object")
	}
	return json.Unmarshal(raw, s)
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

// encodeJSON marshals v the way the file is written by hand: no HTML
// escaping and no trailing newline.
func encodeJSON(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// setField replaces a top-level field, appending the key if it is new.
func (d *document) setField(key string, value json.RawMessage) {
	if _, ok := d.fields[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.fields[key] = value
}

// marshal renders the document with two-space indentation, keys in their
// original order.
func (d *document) marshal() ([]byte, error) {
	var list bytes.Buffer
	list.WriteByte('[')
	for i, rec := range d.records {
		if i > 0 {
			list.WriteByte(',')
		}
		list.Write(rec.raw)
	}
	list.WriteByte(']')
	d.setField(subjectsField, list.Bytes())

	if d.lastID > 0 {
		d.setField(lastIDField, json.RawMessage(strconv.Itoa(d.lastID)))
	}

	var compact bytes.Buffer
	compact.WriteByte('{')
	for i, key := range d.keys {
		if i > 0 {
			compact.WriteByte(',')
		}
		name, err := encodeJSON(key)
		if err != nil {
			return nil, err
		}
		compact.Write(name)
		compact.WriteByte(':')
		compact.Write(d.fields[key])
	}
	compact.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// save rewrites the whole file, pretty-printed, via a temp file and rename
// so readers never observe a half-written document.
func (r *subjectRepository) save(doc *document) error {
	content, err := doc.marshal()
	if err != nil {
		return fmt.Errorf("encode data file: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := tmp.Chmod(0644); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, r.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace data file: %w", err)
	}

	r.log.Debug().Int("count", len(doc.records)).Msg("data file written")
	return nil
}
