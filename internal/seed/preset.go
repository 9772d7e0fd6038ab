package seed

import (
	"context"
	"fmt"
	"os"

	"campusfeed/internal/models"
	"campusfeed/internal/service"

	"gopkg.in/yaml.v3"
)

// Preset is a hand-written data set loaded from YAML.
type Preset struct {
	Users []PresetUser `yaml:"users"`
	Posts []PresetPost `yaml:"posts"`
	Polls []PresetPoll `yaml:"polls"`
}

type PresetUser struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Grant    int64  `yaml:"grant"`
}

type PresetPost struct {
	Author   string          `yaml:"author"`
	Content  string          `yaml:"content"`
	Likes    int             `yaml:"likes"`
	Comments []PresetComment `yaml:"comments"`
}

// PresetComment nests replies to any depth.
type PresetComment struct {
	Author  string          `yaml:"author"`
	Content string          `yaml:"content"`
	Replies []PresetComment `yaml:"replies"`
}

type PresetPoll struct {
	Author       string         `yaml:"author"`
	Question     string         `yaml:"question"`
	IsPrediction bool           `yaml:"prediction"`
	Options      []string       `yaml:"options"`
	Votes        map[string]int `yaml:"votes"`
}

// LoadPreset reads and parses a preset file.
func LoadPreset(path string) (*Preset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preset: %w", err)
	}
	return ParsePreset(raw)
}

// ParsePreset decodes a preset and checks that every author is declared.
func ParsePreset(raw []byte) (*Preset, error) {
	var p Preset
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parse preset: %w", err)
	}

	known := make(map[string]bool, len(p.Users))
	for _, u := range p.Users {
		if u.Username == "" {
			return nil, fmt.Errorf("preset user without username")
		}
		known[u.Username] = true
	}
	var checkComments func([]PresetComment) error
	checkComments = func(cs []PresetComment) error {
		for _, c := range cs {
			if !known[c.Author] {
				return fmt.Errorf("comment author %q is not a preset user", c.Author)
			}
			if err := checkComments(c.Replies); err != nil {
				return err
			}
		}
		return nil
	}
	for _, post := range p.Posts {
		if !known[post.Author] {
			return nil, fmt.Errorf("post author %q is not a preset user", post.Author)
		}
		if err := checkComments(post.Comments); err != nil {
			return nil, err
		}
	}
	for _, poll := range p.Polls {
		if !known[poll.Author] {
			return nil, fmt.Errorf("poll author %q is not a preset user", poll.Author)
		}
	}
	return &p, nil
}

// ApplyPreset writes a preset. Likes and votes go through the counter store.
func (s *Seeder) ApplyPreset(ctx context.Context, p *Preset) (*Summary, error) {
	f, err := s.factory()
	if err != nil {
		return nil, err
	}
	sum := &Summary{}

	byName := make(map[string]*models.User, len(p.Users))
	for _, pu := range p.Users {
		u, err := f.CreateUser(ctx, func(u *models.User) {
			u.Username = pu.Username
			u.Email = pu.Email
			if u.Email == "" {
				u.Email = pu.Username + "@campus.edu"
			}
		})
		if err != nil {
			return sum, fmt.Errorf("create user %s: %w", pu.Username, err)
		}
		byName[pu.Username] = u
		sum.Users++
		if pu.Grant > 0 {
			if _, err := s.wallets.Grant(ctx, u.ID, pu.Grant, "preset_grant"); err != nil {
				return sum, fmt.Errorf("grant %s: %w", pu.Username, err)
			}
		}
	}

	var addComments func(post *models.Post, parent *models.Comment, cs []PresetComment) error
	addComments = func(post *models.Post, parent *models.Comment, cs []PresetComment) error {
		for _, pc := range cs {
			c, err := f.CreateComment(ctx, byName[pc.Author], post, parent, func(c *models.Comment) {
				if pc.Content != "" {
					c.Content = pc.Content
				}
			})
			if err != nil {
				return err
			}
			sum.Comments++
			if err := addComments(post, c, pc.Replies); err != nil {
				return err
			}
		}
		return nil
	}

	for _, pp := range p.Posts {
		post, err := f.CreatePost(ctx, byName[pp.Author], func(post *models.Post) {
			if pp.Content != "" {
				post.Content = pp.Content
			}
		})
		if err != nil {
			return sum, fmt.Errorf("create post: %w", err)
		}
		sum.Posts++
		if err := addComments(post, nil, pp.Comments); err != nil {
			return sum, fmt.Errorf("create comment: %w", err)
		}
		for i := 0; i < pp.Likes; i++ {
			if _, err := s.counters.IncrementLike(ctx, post.ID); err != nil {
				return sum, fmt.Errorf("like post: %w", err)
			}
			sum.Likes++
		}
	}

	for _, pp := range p.Polls {
		poll, err := s.counters.CreatePollWithOptions(ctx, service.CreatePollInput{
			AuthorID:     byName[pp.Author].ID,
			Question:     pp.Question,
			IsPrediction: pp.IsPrediction,
		}, pp.Options)
		if err != nil {
			return sum, fmt.Errorf("create poll %q: %w", pp.Question, err)
		}
		sum.Polls++

		for _, opt := range poll.Options {
			for i, n := 0, pp.Votes[opt.Text]; i < n; i++ {
				if _, err := s.counters.VoteOnPollOption(ctx, opt.ID); err != nil {
					return sum, fmt.Errorf("vote: %w", err)
				}
				sum.Votes++
			}
		}
	}
	return sum, nil
}
