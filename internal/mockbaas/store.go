package mockbaas

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jpalmerr/baaskit"
)

// Store errors. Handlers map them to envelope error codes.
var (
	ErrDuplicate      = errors.New("already exists")
	ErrUnknownProject = errors.New("unknown project")
)

// Account is a stored account with its password hash.
type Account struct {
	Record       baaskit.AccountRecord
	PasswordHash []byte
}

// Event is published to subscribers whenever a recipient is registered.
type Event struct {
	ProjectID string
	Recipient baaskit.RecipientRecord
	At        time.Time
}

// Store defines the state the mock backend needs.
//
// Store implementations must be safe for concurrent access.
type Store interface {
	AddProject(projectID string)
	HasProject(projectID string) bool

	// CreateAccount stores a new account and assigns its ID. Returns
	// ErrDuplicate if the user id is taken within the project.
	CreateAccount(acc Account) (Account, error)
	Account(projectID, userID string) (Account, bool)

	CreateSession(token string, accountID int64)
	Session(token string) (Account, bool)
	DeleteSession(token string)

	// AddRecipient stores a recipient and notifies subscribers. Returns
	// ErrUnknownProject or ErrDuplicate (same phone in the project).
	AddRecipient(projectID string, rec baaskit.RecipientRecord) (baaskit.RecipientRecord, error)

	AddPost(kind baaskit.BoardKind, projectID string, post baaskit.PostRecord) baaskit.PostRecord
	// Posts returns the posts of a board, newest first, filtered by keyword.
	Posts(kind baaskit.BoardKind, projectID, keyword string) []baaskit.PostRecord
	Post(kind baaskit.BoardKind, projectID string, id int64) (baaskit.PostRecord, bool)

	// Subscribe returns a buffered channel of recipient registrations.
	// Caller must call Unsubscribe when done.
	Subscribe() <-chan Event
	Unsubscribe(ch <-chan Event)
}

type accountKey struct {
	projectID string
	userID    string
}

type boardKey struct {
	kind      baaskit.BoardKind
	projectID string
}

// MemoryStore is an in-memory implementation of [Store].
//
// Subscribers receive events via buffered channels (buffer size 100). Sends
// are non-blocking; a subscriber whose buffer is full misses the event.
type MemoryStore struct {
	mu         sync.RWMutex
	nextID     int64
	projects   map[string]struct{}
	accounts   map[accountKey]Account
	accountIDs map[int64]accountKey
	sessions   map[string]int64
	recipients map[string][]baaskit.RecipientRecord
	posts      map[boardKey][]baaskit.PostRecord

	subMu       sync.RWMutex
	subscribers map[chan Event]struct{}
}

// NewMemoryStore creates an empty [MemoryStore].
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		projects:    make(map[string]struct{}),
		accounts:    make(map[accountKey]Account),
		accountIDs:  make(map[int64]accountKey),
		sessions:    make(map[string]int64),
		recipients:  make(map[string][]baaskit.RecipientRecord),
		posts:       make(map[boardKey][]baaskit.PostRecord),
		subscribers: make(map[chan Event]struct{}),
	}
}

func (m *MemoryStore) AddProject(projectID string) {
	m.mu.Lock()
	m.projects[projectID] = struct{}{}
	m.mu.Unlock()
}

func (m *MemoryStore) HasProject(projectID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.projects[projectID]
	return ok
}

func (m *MemoryStore) CreateAccount(acc Account) (Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := accountKey{projectID: acc.Record.ProjectID, userID: acc.Record.UserID}
	if _, exists := m.accounts[key]; exists {
		return Account{}, ErrDuplicate
	}

	m.nextID++
	acc.Record.ID = m.nextID
	m.accounts[key] = acc
	m.accountIDs[acc.Record.ID] = key
	return acc, nil
}

func (m *MemoryStore) Account(projectID, userID string) (Account, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	acc, ok := m.accounts[accountKey{projectID: projectID, userID: userID}]
	return acc, ok
}

func (m *MemoryStore) CreateSession(token string, accountID int64) {
	m.mu.Lock()
	m.sessions[token] = accountID
	m.mu.Unlock()
}

func (m *MemoryStore) Session(token string) (Account, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.sessions[token]
	if !ok {
		return Account{}, false
	}
	acc, ok := m.accounts[m.accountIDs[id]]
	return acc, ok
}

func (m *MemoryStore) DeleteSession(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}

func (m *MemoryStore) AddRecipient(projectID string, rec baaskit.RecipientRecord) (baaskit.RecipientRecord, error) {
	m.mu.Lock()
	if _, ok := m.projects[projectID]; !ok {
		m.mu.Unlock()
		return baaskit.RecipientRecord{}, ErrUnknownProject
	}
	for _, existing := range m.recipients[projectID] {
		if existing.Phone == rec.Phone {
			m.mu.Unlock()
			return baaskit.RecipientRecord{}, ErrDuplicate
		}
	}
	m.nextID++
	rec.ID = m.nextID
	rec.ProjectID = projectID
	m.recipients[projectID] = append(m.recipients[projectID], rec)
	m.mu.Unlock()

	m.notifySubscribers(Event{ProjectID: projectID, Recipient: rec, At: time.Now()})
	return rec, nil
}

func (m *MemoryStore) AddPost(kind baaskit.BoardKind, projectID string, post baaskit.PostRecord) baaskit.PostRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.projects[projectID] = struct{}{}
	m.nextID++
	post.ID = m.nextID
	key := boardKey{kind: kind, projectID: projectID}
	m.posts[key] = append(m.posts[key], post)
	return post
}

func (m *MemoryStore) Posts(kind baaskit.BoardKind, projectID, keyword string) []baaskit.PostRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keyword = strings.ToLower(keyword)
	stored := m.posts[boardKey{kind: kind, projectID: projectID}]
	out := make([]baaskit.PostRecord, 0, len(stored))
	for _, p := range stored {
		if keyword != "" &&
			!strings.Contains(strings.ToLower(p.Title), keyword) &&
			!strings.Contains(strings.ToLower(p.Content), keyword) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (m *MemoryStore) Post(kind baaskit.BoardKind, projectID string, id int64) (baaskit.PostRecord, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.posts[boardKey{kind: kind, projectID: projectID}] {
		if p.ID == id {
			return p, true
		}
	}
	return baaskit.PostRecord{}, false
}

func (m *MemoryStore) Subscribe() <-chan Event {
	ch := make(chan Event, 100)

	m.subMu.Lock()
	m.subscribers[ch] = struct{}{}
	m.subMu.Unlock()

	return ch
}

// Unsubscribe removes a subscription and closes its channel. Safe to call
// multiple times or with an unknown channel.
func (m *MemoryStore) Unsubscribe(ch <-chan Event) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	for subCh := range m.subscribers {
		if subCh == ch {
			delete(m.subscribers, subCh)
			close(subCh)
			break
		}
	}
}

func (m *MemoryStore) notifySubscribers(ev Event) {
	m.subMu.RLock()
	defer m.subMu.RUnlock()

	for ch := range m.subscribers {
		select {
		case ch <- ev:
		default:
			// slow subscriber, drop
		}
	}
}
