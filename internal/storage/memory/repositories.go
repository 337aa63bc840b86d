package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/gravadigital/hackathon-api/internal/domain/common"
	"github.com/gravadigital/hackathon-api/internal/domain/contributor"
	"github.com/gravadigital/hackathon-api/internal/domain/event"
	"github.com/gravadigital/hackathon-api/internal/domain/idea"
	"github.com/gravadigital/hackathon-api/internal/domain/participant"
	"github.com/gravadigital/hackathon-api/internal/domain/vote"
)

type eventRepo struct{ c *Container }

func (r *eventRepo) Create(ctx context.Context, e *event.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	return r.c.with(ctx, func(s *state) error {
		now := time.Now().UTC()
		e.ID = s.next("events")
		e.CreatedAt, e.UpdatedAt = now, now
		s.events[e.ID] = copyEvent(e)
		return nil
	})
}

func (r *eventRepo) GetByID(ctx context.Context, id uint) (*event.Event, error) {
	var out *event.Event
	err := r.c.with(ctx, func(s *state) error {
		e, ok := s.events[id]
		if !ok {
			return common.NotFound("Event not found")
		}
		out = copyEvent(e)
		return nil
	})
	return out, err
}

func (r *eventRepo) GetAll(ctx context.Context) ([]*event.Event, error) {
	var out []*event.Event
	err := r.c.with(ctx, func(s *state) error {
		for _, e := range s.events {
			out = append(out, copyEvent(e))
		}
		slices.SortFunc(out, func(a, b *event.Event) int {
			if c := a.EventDate.Compare(b.EventDate); c != 0 {
				return c
			}
			return cmp.Compare(a.ID, b.ID)
		})
		return nil
	})
	return out, err
}

func (r *eventRepo) Update(ctx context.Context, e *event.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	return r.c.with(ctx, func(s *state) error {
		existing, ok := s.events[e.ID]
		if !ok {
			return common.NotFound("Event not found")
		}
		e.CreatedAt = existing.CreatedAt
		e.UpdatedAt = time.Now().UTC()
		s.events[e.ID] = copyEvent(e)
		return nil
	})
}

func (r *eventRepo) Delete(ctx context.Context, id uint) error {
	return r.c.with(ctx, func(s *state) error {
		if _, ok := s.events[id]; !ok {
			return common.NotFound("Event not found")
		}
		for _, i := range s.ideas {
			if i.EventID == id {
				return common.Conflict("Event is still the origin of idea %d", i.ID)
			}
		}
		delete(s.events, id)
		s.cascadeEvent(id)
		return nil
	})
}

// cascadeEvent mirrors the ON DELETE rules of the postgres schema.
// Origin ideas restrict the delete, so only memberships and event rows go here.
func (s *state) cascadeEvent(eventID uint) {
	for ideaID := range s.memberships {
		s.removeMembership(ideaID, eventID)
	}
	for k := range s.categoryVotes {
		if k.eventID == eventID {
			delete(s.categoryVotes, k)
		}
	}
	for k := range s.results {
		if k.eventID == eventID {
			delete(s.results, k)
		}
	}
	for id, req := range s.requests {
		if req.EventID == eventID {
			delete(s.requests, id)
		}
	}
}

func (s *state) deleteIdea(ideaID uint) {
	delete(s.ideas, ideaID)
	delete(s.memberships, ideaID)
	for k := range s.metadata {
		if k.a == ideaID {
			delete(s.metadata, k)
		}
	}
	for k, v := range s.categoryVotes {
		if v.IdeaID == ideaID {
			delete(s.categoryVotes, k)
		}
	}
	for k := range s.ratings {
		if k.ideaID == ideaID {
			delete(s.ratings, k)
		}
	}
	for k := range s.likes {
		if k.ideaID == ideaID {
			delete(s.likes, k)
		}
	}
	for k, v := range s.results {
		if v.WinningIdeaID == ideaID {
			delete(s.results, k)
		}
	}
	for id, req := range s.requests {
		if req.IdeaID == ideaID {
			delete(s.requests, id)
		}
	}
}

// removeMembership drops one membership row and deletes the idea when none remain.
func (s *state) removeMembership(ideaID, eventID uint) bool {
	m, ok := s.memberships[ideaID]
	if !ok || !m.Contains(eventID) {
		return false
	}
	m = m.Remove(eventID)
	delete(s.metadata, pairKey{ideaID, eventID})
	if len(m) == 0 {
		s.deleteIdea(ideaID)
		return true
	}
	s.memberships[ideaID] = m
	return true
}

type ideaRepo struct{ c *Container }

func (s *state) readIdea(i *idea.Idea) *idea.Idea {
	out := copyIdea(i)
	out.Membership = slices.Clone(s.memberships[i.ID])
	return out
}

func (r *ideaRepo) Create(ctx context.Context, i *idea.Idea) error {
	if err := i.Validate(); err != nil {
		return err
	}
	return r.c.with(ctx, func(s *state) error {
		if _, ok := s.events[i.EventID]; !ok {
			return common.NotFound("Event not found")
		}
		now := time.Now().UTC()
		i.ID = s.next("ideas")
		i.CreatedAt, i.UpdatedAt = now, now
		i.Membership = idea.Membership{i.EventID}
		s.ideas[i.ID] = copyIdea(i)
		s.memberships[i.ID] = idea.Membership{i.EventID}
		return nil
	})
}

func (r *ideaRepo) GetByID(ctx context.Context, id uint) (*idea.Idea, error) {
	var out *idea.Idea
	err := r.c.with(ctx, func(s *state) error {
		i, ok := s.ideas[id]
		if !ok {
			return common.NotFound("Idea not found")
		}
		out = s.readIdea(i)
		return nil
	})
	return out, err
}

func (r *ideaRepo) GetByIDs(ctx context.Context, ids []uint) ([]*idea.Idea, error) {
	return r.filter(ctx, func(_ *state, i *idea.Idea) bool {
		return slices.Contains(ids, i.ID)
	}, byID)
}

func (r *ideaRepo) GetAll(ctx context.Context) ([]*idea.Idea, error) {
	return r.filter(ctx, func(*state, *idea.Idea) bool { return true }, func(a, b *idea.Idea) int {
		if a.Likes != b.Likes {
			return cmp.Compare(b.Likes, a.Likes)
		}
		return newestFirst(a, b)
	})
}

func (r *ideaRepo) GetByEvent(ctx context.Context, eventID uint) ([]*idea.Idea, error) {
	return r.filter(ctx, func(s *state, i *idea.Idea) bool {
		return s.memberships[i.ID].Contains(eventID)
	}, newestFirst)
}

func (r *ideaRepo) GetByOwner(ctx context.Context, email string) ([]*idea.Idea, error) {
	return r.filter(ctx, func(_ *state, i *idea.Idea) bool {
		return i.Email == email
	}, newestFirst)
}

func (r *ideaRepo) GetByContributor(ctx context.Context, email string) ([]*idea.Idea, error) {
	return r.filter(ctx, func(s *state, i *idea.Idea) bool {
		if slices.Contains(i.Contributors, email) {
			return true
		}
		for k, md := range s.metadata {
			if k.a == i.ID && slices.Contains(md.Contributors, email) {
				return true
			}
		}
		return false
	}, newestFirst)
}

func (r *ideaRepo) filter(ctx context.Context, keep func(*state, *idea.Idea) bool, order func(a, b *idea.Idea) int) ([]*idea.Idea, error) {
	out := []*idea.Idea{}
	err := r.c.with(ctx, func(s *state) error {
		for _, i := range s.ideas {
			if keep(s, i) {
				out = append(out, s.readIdea(i))
			}
		}
		return nil
	})
	slices.SortFunc(out, order)
	return out, err
}

func byID(a, b *idea.Idea) int {
	return cmp.Compare(a.ID, b.ID)
}

func newestFirst(a, b *idea.Idea) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(b.ID, a.ID)
}

func (r *ideaRepo) Update(ctx context.Context, i *idea.Idea) error {
	if err := i.Validate(); err != nil {
		return err
	}
	return r.c.with(ctx, func(s *state) error {
		existing, ok := s.ideas[i.ID]
		if !ok {
			return common.NotFound("Idea not found")
		}
		updated := copyIdea(existing)
		updated.Title = i.Title
		updated.Description = i.Description
		updated.Technologies = slices.Clone(i.Technologies)
		updated.EventID = i.EventID
		updated.IsBuilt = i.IsBuilt
		updated.Contributors = slices.Clone(i.Contributors)
		updated.ImageURL = i.ImageURL
		updated.UpdatedAt = time.Now().UTC()
		s.ideas[i.ID] = updated
		return nil
	})
}

func (r *ideaRepo) Delete(ctx context.Context, id uint) error {
	return r.c.with(ctx, func(s *state) error {
		if _, ok := s.ideas[id]; !ok {
			return common.NotFound("Idea not found")
		}
		s.deleteIdea(id)
		return nil
	})
}

func (r *ideaRepo) CountByOwnerAndEvent(ctx context.Context, email string, eventID uint) (int64, error) {
	var n int64
	err := r.c.with(ctx, func(s *state) error {
		for _, i := range s.ideas {
			if i.Email == email && i.EventID == eventID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *ideaRepo) AddMembership(ctx context.Context, ideaID, eventID uint) error {
	return r.c.with(ctx, func(s *state) error {
		if _, ok := s.ideas[ideaID]; !ok {
			return common.NotFound("Idea not found")
		}
		if _, ok := s.events[eventID]; !ok {
			return common.NotFound("Event not found")
		}
		s.memberships[ideaID] = s.memberships[ideaID].Add(eventID)
		return nil
	})
}

func (r *ideaRepo) RemoveMembership(ctx context.Context, ideaID, eventID uint) error {
	return r.c.with(ctx, func(s *state) error {
		if !s.removeMembership(ideaID, eventID) {
			return common.NotFound("Idea is not part of this event")
		}
		return nil
	})
}

func (r *ideaRepo) AdjustLikes(ctx context.Context, ideaID uint, delta int) error {
	return r.c.with(ctx, func(s *state) error {
		i, ok := s.ideas[ideaID]
		if !ok {
			return common.NotFound("Idea not found")
		}
		i.Likes = max(i.Likes+delta, 0)
		return nil
	})
}

func (r *ideaRepo) SetAverageScores(ctx context.Context, scores map[uint]float64) error {
	return r.c.with(ctx, func(s *state) error {
		for id, i := range s.ideas {
			if score, ok := scores[id]; ok {
				i.AverageScore = &score
			} else {
				i.AverageScore = nil
			}
		}
		return nil
	})
}

func (r *ideaRepo) GetMetadata(ctx context.Context, ideaID, eventID uint) (*idea.EventMetadata, error) {
	var out *idea.EventMetadata
	err := r.c.with(ctx, func(s *state) error {
		md, ok := s.metadata[pairKey{ideaID, eventID}]
		if !ok {
			return common.NotFound("Idea metadata not found")
		}
		out = copyMetadata(md)
		return nil
	})
	return out, err
}

func (r *ideaRepo) GetMetadataForEvent(ctx context.Context, eventID uint) ([]*idea.EventMetadata, error) {
	var out []*idea.EventMetadata
	err := r.c.with(ctx, func(s *state) error {
		for k, md := range s.metadata {
			if k.b == eventID {
				out = append(out, copyMetadata(md))
			}
		}
		return nil
	})
	return out, err
}

func (r *ideaRepo) UpsertMetadata(ctx context.Context, md *idea.EventMetadata) error {
	if err := md.Validate(); err != nil {
		return err
	}
	return r.c.with(ctx, func(s *state) error {
		if _, ok := s.ideas[md.IdeaID]; !ok {
			return common.NotFound("Idea not found")
		}
		now := time.Now().UTC()
		key := pairKey{md.IdeaID, md.EventID}
		if existing, ok := s.metadata[key]; ok {
			md.ID, md.CreatedAt = existing.ID, existing.CreatedAt
		} else {
			md.ID, md.CreatedAt = s.next("metadata"), now
		}
		md.UpdatedAt = now
		s.metadata[key] = copyMetadata(md)
		return nil
	})
}

func (r *ideaRepo) DeleteMetadata(ctx context.Context, ideaID, eventID uint) error {
	return r.c.with(ctx, func(s *state) error {
		delete(s.metadata, pairKey{ideaID, eventID})
		return nil
	})
}

type voteRepo struct{ c *Container }

func (r *voteRepo) UpsertCategoryVote(ctx context.Context, v *vote.CategoryVote) error {
	if err := v.Validate(); err != nil {
		return err
	}
	return r.c.with(ctx, func(s *state) error {
		if !s.memberships[v.IdeaID].Contains(v.EventID) {
			return common.NotFound("Idea not found in this event")
		}
		now := time.Now().UTC()
		key := voteKey{v.UserEmail, v.EventID, v.Category}
		if existing, ok := s.categoryVotes[key]; ok {
			existing.IdeaID = v.IdeaID
			existing.UpdatedAt = now
			*v = *existing
			return nil
		}
		v.ID = s.next("category_votes")
		v.CreatedAt, v.UpdatedAt = now, now
		s.categoryVotes[key] = copyPtr(v)
		return nil
	})
}

func (r *voteRepo) DeleteCategoryVote(ctx context.Context, email string, eventID uint, category vote.Category) error {
	return r.c.with(ctx, func(s *state) error {
		key := voteKey{email, eventID, category}
		if _, ok := s.categoryVotes[key]; !ok {
			return common.NotFound("No vote found for this category")
		}
		delete(s.categoryVotes, key)
		return nil
	})
}

func (r *voteRepo) GetCategoryVote(ctx context.Context, email string, eventID uint, category vote.Category) (*vote.CategoryVote, error) {
	var out *vote.CategoryVote
	err := r.c.with(ctx, func(s *state) error {
		v, ok := s.categoryVotes[voteKey{email, eventID, category}]
		if !ok {
			return common.NotFound("No vote found for this category")
		}
		out = copyPtr(v)
		return nil
	})
	return out, err
}

func (r *voteRepo) GetUserCategoryVotes(ctx context.Context, email string, eventID uint) ([]*vote.CategoryVote, error) {
	out := []*vote.CategoryVote{}
	err := r.c.with(ctx, func(s *state) error {
		for k, v := range s.categoryVotes {
			if k.email == email && k.eventID == eventID {
				out = append(out, copyPtr(v))
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *vote.CategoryVote) int { return cmp.Compare(a.ID, b.ID) })
	return out, err
}

func (r *voteRepo) DeleteIdeaVotes(ctx context.Context, ideaID, eventID uint) error {
	return r.c.with(ctx, func(s *state) error {
		for k, v := range s.categoryVotes {
			if v.IdeaID == ideaID && k.eventID == eventID {
				delete(s.categoryVotes, k)
			}
		}
		return nil
	})
}

func (r *voteRepo) TallyCategory(ctx context.Context, eventID uint, category vote.Category) ([]vote.Tally, error) {
	return r.tally(ctx, func(k voteKey) bool { return k.eventID == eventID && k.category == category })
}

func (r *voteRepo) TallyEvent(ctx context.Context, eventID uint) ([]vote.Tally, error) {
	return r.tally(ctx, func(k voteKey) bool { return k.eventID == eventID })
}

func (r *voteRepo) tally(ctx context.Context, match func(voteKey) bool) ([]vote.Tally, error) {
	var votes []vote.CategoryVote
	err := r.c.with(ctx, func(s *state) error {
		for k, v := range s.categoryVotes {
			if match(k) {
				votes = append(votes, *v)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vote.Rank(vote.CountVotes(votes)), nil
}

func (r *voteRepo) UpsertRating(ctx context.Context, rt *vote.Rating) error {
	if err := vote.ValidateRating(rt.Rating); err != nil {
		return err
	}
	return r.c.with(ctx, func(s *state) error {
		if _, ok := s.ideas[rt.IdeaID]; !ok {
			return common.NotFound("Idea not found")
		}
		now := time.Now().UTC()
		key := emailIdeaKey{rt.UserEmail, rt.IdeaID}
		if existing, ok := s.ratings[key]; ok {
			existing.Rating = rt.Rating
			existing.UpdatedAt = now
			*rt = *existing
			return nil
		}
		rt.ID = s.next("ratings")
		rt.CreatedAt, rt.UpdatedAt = now, now
		s.ratings[key] = copyPtr(rt)
		return nil
	})
}

func (r *voteRepo) GetRatingsByIdea(ctx context.Context, ideaID uint) ([]*vote.Rating, error) {
	return r.ratings(ctx, func(k emailIdeaKey) bool { return k.ideaID == ideaID })
}

func (r *voteRepo) GetRatingsByUser(ctx context.Context, email string) ([]*vote.Rating, error) {
	return r.ratings(ctx, func(k emailIdeaKey) bool { return k.email == email })
}

func (r *voteRepo) ratings(ctx context.Context, match func(emailIdeaKey) bool) ([]*vote.Rating, error) {
	out := []*vote.Rating{}
	err := r.c.with(ctx, func(s *state) error {
		for k, rt := range s.ratings {
			if match(k) {
				out = append(out, copyPtr(rt))
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *vote.Rating) int { return cmp.Compare(a.ID, b.ID) })
	return out, err
}

func (r *voteRepo) AverageRatings(ctx context.Context) (map[uint]float64, error) {
	byIdea := make(map[uint][]int)
	err := r.c.with(ctx, func(s *state) error {
		for k, rt := range s.ratings {
			byIdea[k.ideaID] = append(byIdea[k.ideaID], rt.Rating)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	averages := make(map[uint]float64, len(byIdea))
	for id, ratings := range byIdea {
		if avg, ok := vote.AverageScore(ratings); ok {
			averages[id] = avg
		}
	}
	return averages, nil
}

func (r *voteRepo) CreateLike(ctx context.Context, l *vote.Like) error {
	return r.c.with(ctx, func(s *state) error {
		if _, ok := s.ideas[l.IdeaID]; !ok {
			return common.NotFound("Idea not found")
		}
		key := emailIdeaKey{l.UserEmail, l.IdeaID}
		if _, ok := s.likes[key]; ok {
			return common.Conflict("You have already liked this idea.")
		}
		l.ID = s.next("likes")
		l.LikedAt = time.Now().UTC()
		s.likes[key] = copyPtr(l)
		return nil
	})
}

func (r *voteRepo) DeleteLike(ctx context.Context, email string, ideaID uint) error {
	return r.c.with(ctx, func(s *state) error {
		key := emailIdeaKey{email, ideaID}
		if _, ok := s.likes[key]; !ok {
			return common.NotFound("You have not liked this idea.")
		}
		delete(s.likes, key)
		return nil
	})
}

func (r *voteRepo) GetLikedIdeaIDs(ctx context.Context, email string) ([]uint, error) {
	var likes []*vote.Like
	err := r.c.with(ctx, func(s *state) error {
		for k, l := range s.likes {
			if k.email == email {
				likes = append(likes, copyPtr(l))
			}
		}
		return nil
	})
	slices.SortFunc(likes, func(a, b *vote.Like) int { return cmp.Compare(b.ID, a.ID) })

	ids := make([]uint, 0, len(likes))
	for _, l := range likes {
		ids = append(ids, l.IdeaID)
	}
	return ids, err
}

func (r *voteRepo) CountLikes(ctx context.Context, ideaID uint) (int64, error) {
	var n int64
	err := r.c.with(ctx, func(s *state) error {
		for k := range s.likes {
			if k.ideaID == ideaID {
				n++
			}
		}
		return nil
	})
	return n, err
}

type resultRepo struct{ c *Container }

func (r *resultRepo) Upsert(ctx context.Context, res *vote.Result) error {
	return r.c.with(ctx, func(s *state) error {
		key := resultKey{res.EventID, res.Category}
		if existing, ok := s.results[key]; ok {
			res.ID = existing.ID
		} else {
			res.ID = s.next("results")
		}
		s.results[key] = copyResult(res)
		return nil
	})
}

func (r *resultRepo) DeleteByEventAndCategory(ctx context.Context, eventID uint, category vote.Category) error {
	return r.c.with(ctx, func(s *state) error {
		delete(s.results, resultKey{eventID, category})
		return nil
	})
}

func (r *resultRepo) DeleteByEventAndIdea(ctx context.Context, eventID, ideaID uint) error {
	return r.c.with(ctx, func(s *state) error {
		for k, res := range s.results {
			if k.eventID == eventID && res.WinningIdeaID == ideaID {
				delete(s.results, k)
			}
		}
		return nil
	})
}

func (r *resultRepo) GetByEvent(ctx context.Context, eventID uint) ([]*vote.Result, error) {
	out := []*vote.Result{}
	err := r.c.with(ctx, func(s *state) error {
		for k, res := range s.results {
			if k.eventID == eventID {
				out = append(out, copyResult(res))
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *vote.Result) int { return cmp.Compare(a.Category, b.Category) })
	return out, err
}

func (r *resultRepo) GetByCategory(ctx context.Context, category vote.Category, limit int) ([]*vote.Result, error) {
	out := []*vote.Result{}
	err := r.c.with(ctx, func(s *state) error {
		for k, res := range s.results {
			if k.category == category {
				out = append(out, copyResult(res))
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *vote.Result) int {
		if a.Votes != b.Votes {
			return cmp.Compare(b.Votes, a.Votes)
		}
		if c := b.CalculatedAt.Compare(a.CalculatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

type userRepo struct{ c *Container }

func (r *userRepo) Upsert(ctx context.Context, u *participant.User) error {
	if u.Email == "" {
		return common.Validation("email cannot be empty")
	}
	return r.c.with(ctx, func(s *state) error {
		now := time.Now().UTC()
		if existing, ok := s.users[u.Email]; ok {
			u.ID, u.CreatedAt = existing.ID, existing.CreatedAt
		} else {
			u.ID, u.CreatedAt = s.next("users"), now
		}
		u.UpdatedAt = now
		s.users[u.Email] = copyPtr(u)
		return nil
	})
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*participant.User, error) {
	var out *participant.User
	err := r.c.with(ctx, func(s *state) error {
		u, ok := s.users[email]
		if !ok {
			return common.NotFound("User not found")
		}
		out = copyPtr(u)
		return nil
	})
	return out, err
}

func (r *userRepo) GetAll(ctx context.Context) ([]*participant.User, error) {
	out := []*participant.User{}
	err := r.c.with(ctx, func(s *state) error {
		for _, u := range s.users {
			out = append(out, copyPtr(u))
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *participant.User) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.Email, b.Email)
	})
	return out, err
}

func (r *userRepo) IsAdmin(ctx context.Context, email string) (bool, error) {
	var ok bool
	err := r.c.with(ctx, func(s *state) error {
		_, ok = s.admins[email]
		return nil
	})
	return ok && email != "", err
}

func (r *userRepo) AddAdmin(ctx context.Context, email string) error {
	if email == "" {
		return common.Validation("email cannot be empty")
	}
	return r.c.with(ctx, func(s *state) error {
		if _, ok := s.admins[email]; !ok {
			s.admins[email] = &participant.Admin{Email: email, CreatedAt: time.Now().UTC()}
		}
		return nil
	})
}

type requestRepo struct{ c *Container }

func (r *requestRepo) Create(ctx context.Context, req *contributor.Request) error {
	return r.c.with(ctx, func(s *state) error {
		if _, ok := s.ideas[req.IdeaID]; !ok {
			return common.NotFound("Idea not found")
		}
		for _, existing := range s.requests {
			if existing.IsPending() && existing.IdeaID == req.IdeaID && existing.EventID == req.EventID && existing.RequesterEmail == req.RequesterEmail {
				return common.Conflict("You already have a pending request for this project")
			}
		}
		now := time.Now().UTC()
		req.ID = s.next("requests")
		req.CreatedAt, req.UpdatedAt = now, now
		s.requests[req.ID] = copyRequest(req)
		return nil
	})
}

func (r *requestRepo) GetByID(ctx context.Context, id uint) (*contributor.Request, error) {
	var out *contributor.Request
	err := r.c.with(ctx, func(s *state) error {
		req, ok := s.requests[id]
		if !ok {
			return common.NotFound("Request not found")
		}
		out = copyRequest(req)
		return nil
	})
	return out, err
}

func (r *requestRepo) HasPending(ctx context.Context, ideaID, eventID uint, email string) (bool, error) {
	pending, err := r.list(ctx, func(_ *state, req *contributor.Request) bool {
		return req.IsPending() && req.IdeaID == ideaID && req.EventID == eventID && req.RequesterEmail == email
	}, oldestRequestFirst)
	return len(pending) > 0, err
}

func (r *requestRepo) GetPending(ctx context.Context, ideaID, eventID uint) ([]*contributor.Request, error) {
	return r.list(ctx, func(_ *state, req *contributor.Request) bool {
		return req.IsPending() && req.IdeaID == ideaID && req.EventID == eventID
	}, oldestRequestFirst)
}

func (r *requestRepo) GetByRequester(ctx context.Context, email string) ([]*contributor.Request, error) {
	return r.list(ctx, func(_ *state, req *contributor.Request) bool {
		return req.RequesterEmail == email
	}, newestRequestFirst)
}

func (r *requestRepo) GetForOwner(ctx context.Context, ownerEmail string) ([]*contributor.Request, error) {
	return r.list(ctx, ownedBy(ownerEmail), newestRequestFirst)
}

func (r *requestRepo) CountPendingForOwner(ctx context.Context, ownerEmail string) (int64, error) {
	owned := ownedBy(ownerEmail)
	reqs, err := r.list(ctx, func(s *state, req *contributor.Request) bool {
		return req.IsPending() && owned(s, req)
	}, oldestRequestFirst)
	return int64(len(reqs)), err
}

func (r *requestRepo) Update(ctx context.Context, req *contributor.Request) error {
	return r.c.with(ctx, func(s *state) error {
		existing, ok := s.requests[req.ID]
		if !ok {
			return common.NotFound("Request not found")
		}
		updated := copyRequest(existing)
		updated.Status = req.Status
		updated.Message = req.Message
		updated.RespondedAt = req.RespondedAt
		updated.UpdatedAt = time.Now().UTC()
		s.requests[req.ID] = updated
		return nil
	})
}

func (r *requestRepo) list(ctx context.Context, keep func(*state, *contributor.Request) bool, order func(a, b *contributor.Request) int) ([]*contributor.Request, error) {
	out := []*contributor.Request{}
	err := r.c.with(ctx, func(s *state) error {
		for _, req := range s.requests {
			if keep(s, req) {
				out = append(out, copyRequest(req))
			}
		}
		return nil
	})
	slices.SortFunc(out, order)
	return out, err
}

func ownedBy(ownerEmail string) func(*state, *contributor.Request) bool {
	return func(s *state, req *contributor.Request) bool {
		if ownerEmail == "" {
			return true
		}
		i, ok := s.ideas[req.IdeaID]
		return ok && i.Email == ownerEmail
	}
}

func oldestRequestFirst(a, b *contributor.Request) int {
	return cmp.Compare(a.ID, b.ID)
}

func newestRequestFirst(a, b *contributor.Request) int {
	return cmp.Compare(b.ID, a.ID)
}
