// Package memory is a mutex guarded, non-persistent storage backend for local runs and tests.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/hackathon-api/internal/domain/contributor"
	"github.com/gravadigital/hackathon-api/internal/domain/event"
	"github.com/gravadigital/hackathon-api/internal/domain/idea"
	"github.com/gravadigital/hackathon-api/internal/domain/participant"
	"github.com/gravadigital/hackathon-api/internal/domain/vote"
	"github.com/gravadigital/hackathon-api/internal/logger"
	"github.com/gravadigital/hackathon-api/internal/repository"
)

type pairKey struct {
	a uint
	b uint
}

type emailIdeaKey struct {
	email  string
	ideaID uint
}

type voteKey struct {
	email    string
	eventID  uint
	category vote.Category
}

type resultKey struct {
	eventID  uint
	category vote.Category
}

type state struct {
	seq map[string]uint

	events        map[uint]*event.Event
	ideas         map[uint]*idea.Idea
	memberships   map[uint]idea.Membership
	metadata      map[pairKey]*idea.EventMetadata
	categoryVotes map[voteKey]*vote.CategoryVote
	ratings       map[emailIdeaKey]*vote.Rating
	likes         map[emailIdeaKey]*vote.Like
	results       map[resultKey]*vote.Result
	users         map[string]*participant.User
	admins        map[string]*participant.Admin
	requests      map[uint]*contributor.Request
}

func newState() *state {
	return &state{
		seq:           make(map[string]uint),
		events:        make(map[uint]*event.Event),
		ideas:         make(map[uint]*idea.Idea),
		memberships:   make(map[uint]idea.Membership),
		metadata:      make(map[pairKey]*idea.EventMetadata),
		categoryVotes: make(map[voteKey]*vote.CategoryVote),
		ratings:       make(map[emailIdeaKey]*vote.Rating),
		likes:         make(map[emailIdeaKey]*vote.Like),
		results:       make(map[resultKey]*vote.Result),
		users:         make(map[string]*participant.User),
		admins:        make(map[string]*participant.Admin),
		requests:      make(map[uint]*contributor.Request),
	}
}

func (s *state) next(name string) uint {
	s.seq[name]++
	return s.seq[name]
}

// clone copies every record so a snapshot is unaffected by later writes.
func (s *state) clone() *state {
	c := &state{
		seq:           maps.Clone(s.seq),
		events:        cloneMap(s.events, copyEvent),
		ideas:         cloneMap(s.ideas, copyIdea),
		memberships:   make(map[uint]idea.Membership, len(s.memberships)),
		metadata:      cloneMap(s.metadata, copyMetadata),
		categoryVotes: cloneMap(s.categoryVotes, copyPtr[vote.CategoryVote]),
		ratings:       cloneMap(s.ratings, copyPtr[vote.Rating]),
		likes:         cloneMap(s.likes, copyPtr[vote.Like]),
		results:       cloneMap(s.results, copyResult),
		users:         cloneMap(s.users, copyPtr[participant.User]),
		admins:        cloneMap(s.admins, copyPtr[participant.Admin]),
		requests:      cloneMap(s.requests, copyRequest),
	}
	for k, v := range s.memberships {
		c.memberships[k] = slices.Clone(v)
	}
	return c
}

// Store owns the shared state. Every repository call takes the store lock;
// Transaction holds it for the whole callback and restores a snapshot on error.
type Store struct {
	mu   sync.Mutex
	data *state
	log  *log.Logger
}

func NewStore() *Store {
	return &Store{
		data: newState(),
		log:  logger.Repository("memory_store"),
	}
}

// Container implements repository.Container over a Store.
type Container struct {
	store *Store
	inTx  bool
}

var _ repository.Container = (*Container)(nil)

// NewContainer creates an empty in-memory container
func NewContainer() *Container {
	return &Container{store: NewStore()}
}

func (c *Container) Events() repository.EventRepository   { return &eventRepo{c} }
func (c *Container) Ideas() repository.IdeaRepository     { return &ideaRepo{c} }
func (c *Container) Votes() repository.VoteRepository     { return &voteRepo{c} }
func (c *Container) Results() repository.ResultRepository { return &resultRepo{c} }
func (c *Container) Users() repository.UserRepository     { return &userRepo{c} }

func (c *Container) ContributorRequests() repository.ContributorRequestRepository {
	return &requestRepo{c}
}

// Transaction serializes fn against all other store access. Nested calls join the outer transaction.
func (c *Container) Transaction(ctx context.Context, fn func(tx repository.Container) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.inTx {
		return fn(c)
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	snapshot := c.store.data.clone()
	if err := fn(&Container{store: c.store, inTx: true}); err != nil {
		c.store.data = snapshot
		c.store.log.Debug("memory transaction rolled back", "error", err)
		return err
	}
	return nil
}

func (c *Container) Health(ctx context.Context) error {
	return ctx.Err()
}

func (c *Container) Close() error {
	return nil
}

// with runs fn under the store lock unless the caller already holds it through Transaction.
func (c *Container) with(ctx context.Context, fn func(s *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.inTx {
		return fn(c.store.data)
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	return fn(c.store.data)
}

func cloneMap[K comparable, V any](m map[K]*V, cp func(*V) *V) map[K]*V {
	out := make(map[K]*V, len(m))
	for k, v := range m {
		out[k] = cp(v)
	}
	return out
}

func copyPtr[V any](v *V) *V {
	c := *v
	return &c
}

func copyEvent(e *event.Event) *event.Event {
	return copyPtr(e)
}

func copyIdea(i *idea.Idea) *idea.Idea {
	c := *i
	c.Technologies = slices.Clone(i.Technologies)
	c.Contributors = slices.Clone(i.Contributors)
	c.Membership = slices.Clone(i.Membership)
	if i.AverageScore != nil {
		score := *i.AverageScore
		c.AverageScore = &score
	}
	return &c
}

func copyMetadata(m *idea.EventMetadata) *idea.EventMetadata {
	c := *m
	c.Technologies = slices.Clone(m.Technologies)
	c.Contributors = slices.Clone(m.Contributors)
	return &c
}

func copyResult(r *vote.Result) *vote.Result {
	c := *r
	c.Breakdown = slices.Clone(r.Breakdown)
	return &c
}

func copyRequest(r *contributor.Request) *contributor.Request {
	c := *r
	if r.RespondedAt != nil {
		at := *r.RespondedAt
		c.RespondedAt = &at
	}
	return &c
}
