package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iliyamo/movie-catalog/internal/metrics"
	"github.com/iliyamo/movie-catalog/internal/model"
)

// Service orchestrates reads and writes across the four catalog entities.
// Every exported method runs inside one Store transaction, so reference
// checks and the writes they guard are atomic.  Events are published only
// after the transaction committed.
type Service struct {
	store  Store
	events Publisher
	log    zerolog.Logger
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher sets the destination of committed-change events.
func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.events = p
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithClock overrides the clock used for review creation times.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService constructs a Service over the store and panics if it is nil.
func NewService(store Store, opts ...Option) *Service {
	if store == nil {
		panic("nil store passed to NewService")
	}
	s := &Service{
		store:  store,
		events: noopPublisher{},
		log:    zerolog.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// run executes fn in a transaction and records the outcome.
func (s *Service) run(ctx context.Context, op string, fn func(tx Tx) error) error {
	start := time.Now()
	err := s.store.WithinTx(ctx, fn)
	metrics.ObserveOperation(op, time.Since(start), err)
	if err != nil {
		s.log.Debug().Err(err).Str("op", op).Msg("catalog operation failed")
	}
	return err
}

func (s *Service) publish(ctx context.Context, typ, entity string, id uint64, related []uint64) {
	ev := Event{
		Type:       typ,
		Entity:     entity,
		EntityID:   id,
		RelatedIDs: related,
		OccurredAt: s.now().UTC(),
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("event", typ).Uint64("id", id).Msg("publish event failed")
	}
}

// ---- Directors ----

// CreateDirector stores a new director.
func (s *Service) CreateDirector(ctx context.Context, in DirectorInput) (*model.Director, error) {
	d := in.director(0)
	err := s.run(ctx, "create_director", func(tx Tx) error {
		if err := tx.Directors().Create(ctx, d); err != nil {
			return fmt.Errorf("create director: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, EventDirectorCreated, model.EntityDirector, d.ID, nil)
	return d, nil
}

// GetDirector returns the director with the given id.
func (s *Service) GetDirector(ctx context.Context, id uint64) (*model.Director, error) {
	var d *model.Director
	err := s.run(ctx, "get_director", func(tx Tx) error {
		var err error
		d, err = tx.Directors().Get(ctx, id)
		return err
	})
	return d, err
}

// ListDirectors returns every director in storage order.
func (s *Service) ListDirectors(ctx context.Context) ([]*model.Director, error) {
	var out []*model.Director
	err := s.run(ctx, "list_directors", func(tx Tx) error {
		var err error
		out, err = tx.Directors().List(ctx)
		return err
	})
	return out, err
}

// UpdateDirector replaces every field of the director.
func (s *Service) UpdateDirector(ctx context.Context, id uint64, in DirectorInput) (*model.Director, error) {
	d := in.director(id)
	err := s.run(ctx, "update_director", func(tx Tx) error {
		if err := requireDirector(ctx, tx, id); err != nil {
			return err
		}
		if err := tx.Directors().Update(ctx, d); err != nil {
			return fmt.Errorf("update director %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, EventDirectorUpdated, model.EntityDirector, id, nil)
	return d, nil
}

// DeleteDirector removes the director, every movie it owns and, through
// those movies, their reviews and genre links.
func (s *Service) DeleteDirector(ctx context.Context, id uint64) error {
	var removed []uint64
	err := s.run(ctx, "delete_director", func(tx Tx) error {
		if err := requireDirector(ctx, tx, id); err != nil {
			return err
		}
		movieIDs, err := tx.Movies().IDsByDirector(ctx, id)
		if err != nil {
			return fmt.Errorf("list movies of director %d: %w", id, err)
		}
		for _, movieID := range movieIDs {
			if _, err := deleteMovieCascade(ctx, tx, movieID); err != nil {
				return err
			}
		}
		if err := tx.Directors().Delete(ctx, id); err != nil {
			return fmt.Errorf("delete director %d: %w", id, err)
		}
		removed = movieIDs
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info().Uint64("director_id", id).Int("movies_removed", len(removed)).Msg("director deleted")
	s.publish(ctx, EventDirectorDeleted, model.EntityDirector, id, removed)
	return nil
}

// ---- Genres ----

// CreateGenre stores a new genre.
func (s *Service) CreateGenre(ctx context.Context, in GenreInput) (*model.Genre, error) {
	g := in.genre(0)
	err := s.run(ctx, "create_genre", func(tx Tx) error {
		if err := tx.Genres().Create(ctx, g); err != nil {
			return fmt.Errorf("create genre: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, EventGenreCreated, model.EntityGenre, g.ID, nil)
	return g, nil
}

// GetGenre returns the genre with the given id.
func (s *Service) GetGenre(ctx context.Context, id uint64) (*model.Genre, error) {
	var g *model.Genre
	err := s.run(ctx, "get_genre", func(tx Tx) error {
		var err error
		g, err = tx.Genres().Get(ctx, id)
		return err
	})
	return g, err
}

// ListGenres returns every genre in storage order.
func (s *Service) ListGenres(ctx context.Context) ([]*model.Genre, error) {
	var out []*model.Genre
	err := s.run(ctx, "list_genres", func(tx Tx) error {
		var err error
		out, err = tx.Genres().List(ctx)
		return err
	})
	return out, err
}

// UpdateGenre renames the genre.
func (s *Service) UpdateGenre(ctx context.Context, id uint64, in GenreInput) (*model.Genre, error) {
	g := in.genre(id)
	err := s.run(ctx, "update_genre", func(tx Tx) error {
		if err := requireGenre(ctx, tx, id); err != nil {
			return err
		}
		if err := tx.Genres().Update(ctx, g); err != nil {
			return fmt.Errorf("update genre %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, EventGenreUpdated, model.EntityGenre, id, nil)
	return g, nil
}

// DeleteGenre removes the genre.  Movies are kept; the genre only
// disappears from their genre sets.
func (s *Service) DeleteGenre(ctx context.Context, id uint64) error {
	err := s.run(ctx, "delete_genre", func(tx Tx) error {
		if err := requireGenre(ctx, tx, id); err != nil {
			return err
		}
		if err := tx.Movies().UnlinkGenre(ctx, id); err != nil {
			return fmt.Errorf("unlink genre %d: %w", id, err)
		}
		if err := tx.Genres().Delete(ctx, id); err != nil {
			return fmt.Errorf("delete genre %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.publish(ctx, EventGenreDeleted, model.EntityGenre, id, nil)
	return nil
}

// ---- Movies ----

// CreateMovie stores a new movie after checking that its director and
// every listed genre exist.
func (s *Service) CreateMovie(ctx context.Context, in MovieInput) (model.MovieView, error) {
	m := in.movie(0)
	err := s.run(ctx, "create_movie", func(tx Tx) error {
		if err := checkMovieRefs(ctx, tx, m); err != nil {
			return err
		}
		if err := tx.Movies().Create(ctx, m); err != nil {
			return fmt.Errorf("create movie: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.MovieView{}, err
	}
	s.publish(ctx, EventMovieCreated, model.EntityMovie, m.ID, nil)
	return projectMovie(m, 0), nil
}

// GetMovie returns the movie with its derived average rating.
func (s *Service) GetMovie(ctx context.Context, id uint64) (model.MovieView, error) {
	var out model.MovieView
	err := s.run(ctx, "get_movie", func(tx Tx) error {
		m, err := tx.Movies().Get(ctx, id)
		if err != nil {
			return err
		}
		out, err = viewMovie(ctx, tx.Reviews(), m)
		return err
	})
	return out, err
}

// ListMovies returns every movie in storage order, each with its average
// rating.
func (s *Service) ListMovies(ctx context.Context) ([]model.MovieView, error) {
	var out []model.MovieView
	err := s.run(ctx, "list_movies", func(tx Tx) error {
		movies, err := tx.Movies().List(ctx)
		if err != nil {
			return err
		}
		out = make([]model.MovieView, 0, len(movies))
		for _, m := range movies {
			v, err := viewMovie(ctx, tx.Reviews(), m)
			if err != nil {
				return err
			}
			out = append(out, v)
		}
		return nil
	})
	return out, err
}

// UpdateMovie replaces every field of the movie, including its genre set.
func (s *Service) UpdateMovie(ctx context.Context, id uint64, in MovieInput) (model.MovieView, error) {
	m := in.movie(id)
	var out model.MovieView
	err := s.run(ctx, "update_movie", func(tx Tx) error {
		if err := requireMovie(ctx, tx, id); err != nil {
			return err
		}
		if err := checkMovieRefs(ctx, tx, m); err != nil {
			return err
		}
		if err := tx.Movies().Update(ctx, m); err != nil {
			return fmt.Errorf("update movie %d: %w", id, err)
		}
		var err error
		out, err = viewMovie(ctx, tx.Reviews(), m)
		return err
	})
	if err != nil {
		return model.MovieView{}, err
	}
	s.publish(ctx, EventMovieUpdated, model.EntityMovie, id, nil)
	return out, nil
}

// DeleteMovie removes the movie, its reviews and its genre links.
func (s *Service) DeleteMovie(ctx context.Context, id uint64) error {
	var removed []uint64
	err := s.run(ctx, "delete_movie", func(tx Tx) error {
		if err := requireMovie(ctx, tx, id); err != nil {
			return err
		}
		var err error
		removed, err = deleteMovieCascade(ctx, tx, id)
		return err
	})
	if err != nil {
		return err
	}
	s.publish(ctx, EventMovieDeleted, model.EntityMovie, id, removed)
	return nil
}

// Recommend returns movies similar to movieID; see the package-level
// Recommend for the ranking rules.
func (s *Service) Recommend(ctx context.Context, movieID uint64) ([]model.MovieView, error) {
	var out []model.MovieView
	err := s.run(ctx, "recommend", func(tx Tx) error {
		var err error
		out, err = Recommend(ctx, tx.Movies(), tx.Reviews(), movieID)
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.RecommendationSize.Observe(float64(len(out)))
	return out, nil
}

// ---- Reviews ----

// CreateReview stores a new review of an existing movie.  The creation
// time is taken from the service clock.
func (s *Service) CreateReview(ctx context.Context, in ReviewInput) (*model.Review, error) {
	r := in.review(0)
	r.CreatedAt = s.now().UTC().Truncate(time.Second)
	err := s.run(ctx, "create_review", func(tx Tx) error {
		if err := requireMovie(ctx, tx, r.MovieID); err != nil {
			return err
		}
		if err := tx.Reviews().Create(ctx, r); err != nil {
			return fmt.Errorf("create review: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, EventReviewCreated, model.EntityReview, r.ID, []uint64{r.MovieID})
	return r, nil
}

// GetReview returns the review with the given id.
func (s *Service) GetReview(ctx context.Context, id uint64) (*model.Review, error) {
	var r *model.Review
	err := s.run(ctx, "get_review", func(tx Tx) error {
		var err error
		r, err = tx.Reviews().Get(ctx, id)
		return err
	})
	return r, err
}

// ListReviews returns every review in storage order.
func (s *Service) ListReviews(ctx context.Context) ([]*model.Review, error) {
	var out []*model.Review
	err := s.run(ctx, "list_reviews", func(tx Tx) error {
		var err error
		out, err = tx.Reviews().List(ctx)
		return err
	})
	return out, err
}

// ReviewsByMovie returns the reviews of a movie.  An unknown movie simply
// has no reviews.
func (s *Service) ReviewsByMovie(ctx context.Context, movieID uint64) ([]*model.Review, error) {
	var out []*model.Review
	err := s.run(ctx, "reviews_by_movie", func(tx Tx) error {
		var err error
		out, err = tx.Reviews().ListByMovie(ctx, movieID)
		return err
	})
	return out, err
}

// UpdateReview replaces the author, comment, rating and movie of a review.
// CreatedAt keeps its stored value.
func (s *Service) UpdateReview(ctx context.Context, id uint64, in ReviewInput) (*model.Review, error) {
	r := in.review(id)
	err := s.run(ctx, "update_review", func(tx Tx) error {
		current, err := tx.Reviews().Get(ctx, id)
		if err != nil {
			return err
		}
		if err := requireMovie(ctx, tx, r.MovieID); err != nil {
			return err
		}
		r.CreatedAt = current.CreatedAt
		if err := tx.Reviews().Update(ctx, r); err != nil {
			return fmt.Errorf("update review %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, EventReviewUpdated, model.EntityReview, id, []uint64{r.MovieID})
	return r, nil
}

// DeleteReview removes a single review.
func (s *Service) DeleteReview(ctx context.Context, id uint64) error {
	err := s.run(ctx, "delete_review", func(tx Tx) error {
		ok, err := tx.Reviews().Exists(ctx, id)
		if err != nil {
			return fmt.Errorf("check review %d: %w", id, err)
		}
		if !ok {
			return model.NotFound(model.EntityReview, id)
		}
		if err := tx.Reviews().Delete(ctx, id); err != nil {
			return fmt.Errorf("delete review %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.publish(ctx, EventReviewDeleted, model.EntityReview, id, nil)
	return nil
}

// AverageRating returns the mean rating of an existing movie, 0 when it
// has no reviews.
func (s *Service) AverageRating(ctx context.Context, movieID uint64) (float64, error) {
	var avg float64
	err := s.run(ctx, "average_rating", func(tx Tx) error {
		if err := requireMovie(ctx, tx, movieID); err != nil {
			return err
		}
		var err error
		avg, err = AverageRating(ctx, tx.Reviews(), movieID)
		return err
	})
	return avg, err
}

// ---- helpers ----

// deleteMovieCascade removes the reviews of a movie, then the movie and its
// genre links.  It returns the ids of the removed reviews.
func deleteMovieCascade(ctx context.Context, tx Tx, movieID uint64) ([]uint64, error) {
	reviews, err := tx.Reviews().ListByMovie(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("list reviews of movie %d: %w", movieID, err)
	}
	if err := tx.Reviews().DeleteByMovie(ctx, movieID); err != nil {
		return nil, fmt.Errorf("delete reviews of movie %d: %w", movieID, err)
	}
	if err := tx.Movies().Delete(ctx, movieID); err != nil {
		return nil, fmt.Errorf("delete movie %d: %w", movieID, err)
	}
	ids := make([]uint64, 0, len(reviews))
	for _, r := range reviews {
		ids = append(ids, r.ID)
	}
	return ids, nil
}

// checkMovieRefs verifies that the director and every genre of m exist.
func checkMovieRefs(ctx context.Context, tx Tx, m *model.Movie) error {
	if err := requireDirector(ctx, tx, m.DirectorID); err != nil {
		return err
	}
	for _, gid := range m.GenreIDs {
		if err := requireGenre(ctx, tx, gid); err != nil {
			return err
		}
	}
	return nil
}

func requireDirector(ctx context.Context, tx Tx, id uint64) error {
	ok, err := tx.Directors().Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("check director %d: %w", id, err)
	}
	if !ok {
		return model.NotFound(model.EntityDirector, id)
	}
	return nil
}

func requireGenre(ctx context.Context, tx Tx, id uint64) error {
	ok, err := tx.Genres().Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("check genre %d: %w", id, err)
	}
	if !ok {
		return model.NotFound(model.EntityGenre, id)
	}
	return nil
}

func requireMovie(ctx context.Context, tx Tx, id uint64) error {
	ok, err := tx.Movies().Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("check movie %d: %w", id, err)
	}
	if !ok {
		return model.NotFound(model.EntityMovie, id)
	}
	return nil
}
