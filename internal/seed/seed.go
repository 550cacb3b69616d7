// Package seed provides the post data a feed starts with: the built-in demo
// posts, generated mock posts, or posts read from a YAML file. These helpers
// stand in for a backend and are intended for demos and tests.
package seed

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"vibefeed/internal/config"
	"vibefeed/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gopkg.in/yaml.v3"
)

// Defaults returns the built-in demo posts, newest first.
func Defaults() []models.PostSeed {
	return []models.PostSeed{
		{
			ID: "1",
			Author: models.Author{
				Name:      "Sarah Johnson",
				Username:  "sarahj",
				AvatarURL: "https://images.unsplash.com/photo-1494790108755-2616b612b287?w=150",
			},
			Content:   "Just finished an amazing workout session! Feeling energized and ready to tackle the day. 💪 #fitness #motivation",
			ImageURL:  "https://images.unsplash.com/photo-1571019613454-1cb2f99b2d8b?w=500",
			Timestamp: "2h",
			Likes:     24,
			Comments:  8,
			Shares:    3,
		},
		{
			ID: "2",
			Author: models.Author{
				Name:      "Alex Chen",
				Username:  "alexc",
				AvatarURL: "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=150",
			},
			Content:   "Beautiful sunset from my balcony tonight. Sometimes you just need to pause and appreciate the simple things in life. 🌅",
			ImageURL:  "https://images.unsplash.com/photo-1506905925346-21bda4d32df4?w=500",
			Timestamp: "4h",
			Likes:     42,
			Comments:  12,
			Shares:    7,
		},
		{
			ID: "3",
			Author: models.Author{
				Name:      "Emma Davis",
				Username:  "emmad",
				AvatarURL: "https://images.unsplash.com/photo-1438761681033-6461ffad8d80?w=150",
			},
			Content:   "Coffee and code - the perfect combination for a productive morning! ☕️👩‍💻 Working on something exciting that I can't wait to share.",
			Timestamp: "6h",
			Likes:     18,
			Comments:  5,
			Shares:    2,
		},
	}
}

// Generate builds n mock posts. A zero seed picks a random one; any other
// value makes the output reproducible.
func Generate(n int, seed int64) []models.PostSeed {
	faker := gofakeit.New(seed)
	posts := make([]models.PostSeed, 0, n)
	for i := 0; i < n; i++ {
		first, last := faker.FirstName(), faker.LastName()
		post := models.PostSeed{
			ID: fmt.Sprintf("gen-%d", i+1),
			Author: models.Author{
				Name:      first + " " + last,
				Username:  strings.ToLower(first[:1] + last),
				AvatarURL: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", faker.UUID()),
			},
			Content: faker.Sentence(faker.Number(6, 20)),
			// posts are listed newest first
			Timestamp: fmt.Sprintf("%dh", i*2+1),
			Likes:     faker.Number(0, 250),
			Comments:  faker.Number(0, 40),
			Shares:    faker.Number(0, 20),
		}
		if faker.Bool() {
			post.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", faker.UUID())
		}
		posts = append(posts, post)
	}
	return posts
}

type document struct {
	Posts []models.PostSeed `yaml:"posts"`
}

// Decode reads posts from YAML and checks each one has what a post needs.
func Decode(r io.Reader) ([]models.PostSeed, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	seen := make(map[string]struct{}, len(doc.Posts))
	for i, p := range doc.Posts {
		if err := validate(p); err != nil {
			return nil, fmt.Errorf("post %d: %w", i, err)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("post %d: %w", i, models.NewValidationError(fmt.Sprintf("duplicate id %q", p.ID)))
		}
		seen[p.ID] = struct{}{}
	}
	return doc.Posts, nil
}

// Encode writes posts in the format Decode reads.
func Encode(w io.Writer, posts []models.PostSeed) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(document{Posts: posts}); err != nil {
		return fmt.Errorf("encode posts: %w", err)
	}
	return enc.Close()
}

// LoadFile reads posts from a YAML file.
func LoadFile(path string) ([]models.PostSeed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Load picks the seed source named by the configuration.
func Load(cfg *config.Config) ([]models.PostSeed, error) {
	switch cfg.SeedSource {
	case config.SeedDefaults:
		return Defaults(), nil
	case config.SeedGenerated:
		return Generate(cfg.SeedCount, cfg.SeedRandom), nil
	default:
		return LoadFile(cfg.SeedSource)
	}
}

func validate(p models.PostSeed) error {
	switch {
	case strings.TrimSpace(p.ID) == "":
		return models.NewValidationError("id is required")
	case strings.TrimSpace(p.Author.Name) == "":
		return models.NewValidationError("author.name is required")
	case strings.TrimSpace(p.Content) == "":
		return models.NewValidationError("content is required")
	case p.Likes < 0 || p.Comments < 0 || p.Shares < 0:
		return models.NewValidationError("counts must not be negative")
	}
	return nil
}
