// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"

	"quorum/internal/models"
	"quorum/internal/repository"
	"quorum/internal/service"
)

// Options configuration for the seeder
type Options struct {
	NumUsers   int
	NumThreads int
	Clean      bool
}

var communityNames = []string{
	"Programming", "Gaming", "Movies", "Music", "Science",
	"Technology", "Books", "Fitness", "Food", "Travel",
	"Linux", "DevOps", "Startups", "Homelab", "Philosophy",
}

// Seeder populates the database with plausible demo data.
type Seeder struct {
	db    *gorm.DB
	votes repository.VoteRepository
	rng   *rand.Rand
}

func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:    db,
		votes: repository.NewVoteRepository(db),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll wipes all seeded tables.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	for _, table := range []string{"votes", "comments", "threads", "communities", "users"} {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}

// Seed populates users, communities, threads, comments and a realistic
// vote distribution over them.
func (s *Seeder) Seed(opts Options) error {
	if opts.Clean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	users, err := s.createUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("creating users: %w", err)
	}
	log.Printf("created %d users", len(users))

	communities, err := s.createCommunities(users)
	if err != nil {
		return fmt.Errorf("creating communities: %w", err)
	}
	log.Printf("created %d communities", len(communities))

	threads, err := s.createThreads(users, communities, opts.NumThreads)
	if err != nil {
		return fmt.Errorf("creating threads: %w", err)
	}
	log.Printf("created %d threads", len(threads))

	comments, err := s.createComments(users, threads)
	if err != nil {
		return fmt.Errorf("creating comments: %w", err)
	}
	log.Printf("created %d comments", len(comments))

	cast, err := s.castVotes(users, threads, comments)
	if err != nil {
		return fmt.Errorf("casting votes: %w", err)
	}
	log.Printf("cast %d votes", cast)

	return nil
}

func (s *Seeder) createUsers(n int) ([]*models.User, error) {
	if n <= 0 {
		n = 50
	}
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user := &models.User{
			Username: fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:    fmt.Sprintf("user%d@%s", i, gofakeit.DomainName()),
			Bio:      gofakeit.Sentence(8),
			IsAdmin:  i == 0,
		}
		if err := s.db.Create(user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) createCommunities(users []*models.User) ([]*models.Community, error) {
	communities := make([]*models.Community, 0, len(communityNames))
	for _, name := range communityNames {
		community := &models.Community{
			Name:        name,
			Slug:        service.Slugify(name),
			Description: gofakeit.Sentence(12),
			CreatedBy:   s.pickUser(users).ID,
		}
		if err := s.db.Create(community).Error; err != nil {
			return nil, err
		}
		communities = append(communities, community)
	}
	return communities, nil
}

func (s *Seeder) createThreads(users []*models.User, communities []*models.Community, n int) ([]*models.Thread, error) {
	if n <= 0 {
		n = 200
	}
	threads := make([]*models.Thread, 0, n)
	for i := 0; i < n; i++ {
		thread := &models.Thread{
			Title:       gofakeit.Sentence(6),
			Content:     gofakeit.Paragraph(1, 4, 8, "\n"),
			UserID:      s.pickUser(users).ID,
			CommunityID: communities[s.rng.Intn(len(communities))].ID,
			CreatedAt:   s.pastTime(60),
		}
		if err := s.db.Create(thread).Error; err != nil {
			return nil, err
		}
		threads = append(threads, thread)
	}
	return threads, nil
}

func (s *Seeder) createComments(users []*models.User, threads []*models.Thread) ([]*models.Comment, error) {
	var comments []*models.Comment
	for _, thread := range threads {
		n := s.rng.Intn(8)
		var parents []*models.Comment
		for i := 0; i < n; i++ {
			comment := &models.Comment{
				Content:   gofakeit.Sentence(10),
				UserID:    s.pickUser(users).ID,
				ThreadID:  thread.ID,
				CreatedAt: thread.CreatedAt.Add(time.Duration(s.rng.Intn(72)) * time.Hour),
			}
			// Roughly a third of comments reply to an earlier one.
			if len(parents) > 0 && s.rng.Intn(3) == 0 {
				parent := parents[s.rng.Intn(len(parents))]
				comment.ParentID = &parent.ID
			}
			if err := s.db.Create(comment).Error; err != nil {
				return nil, err
			}
			parents = append(parents, comment)
			comments = append(comments, comment)
		}
	}
	return comments, nil
}

// castVotes drives votes through the repository so the unique-pair rule
// holds for seeded data exactly as it does in production.
func (s *Seeder) castVotes(users []*models.User, threads []*models.Thread, comments []*models.Comment) (int, error) {
	ctx := context.Background()
	cast := 0

	vote := func(targetType string, targetID uint) error {
		voter := s.pickUser(users)
		value := models.VoteUp
		// Skew positive: roughly one downvote for every four upvotes.
		if s.rng.Intn(5) == 0 {
			value = models.VoteDown
		}
		err := s.votes.Cast(ctx, voter.ID, targetType, targetID, value)
		if errors.Is(err, repository.ErrDuplicateVote) {
			return nil
		}
		if err == nil {
			cast++
		}
		return err
	}

	for _, thread := range threads {
		for i := s.rng.Intn(len(users)/2 + 1); i > 0; i-- {
			if err := vote(models.TargetThread, thread.ID); err != nil {
				return cast, err
			}
		}
	}
	for _, comment := range comments {
		for i := s.rng.Intn(6); i > 0; i-- {
			if err := vote(models.TargetComment, comment.ID); err != nil {
				return cast, err
			}
		}
	}
	return cast, nil
}

func (s *Seeder) pickUser(users []*models.User) *models.User {
	return users[s.rng.Intn(len(users))]
}

func (s *Seeder) pastTime(maxDays int) time.Time {
	return time.Now().
		Add(-time.Duration(s.rng.Intn(maxDays*24)) * time.Hour).
		Add(-time.Duration(s.rng.Intn(60)) * time.Minute)
}
