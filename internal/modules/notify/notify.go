package notify

import (
	"fmt"
	"strings"
	"sync"

	"github.com/bluelog/core/internal/models"
	pkgmail "github.com/bluelog/core/internal/pkg/mail"
	"go.uber.org/zap"
)

// Mailer is the part of the mail sender the notifications use.
type Mailer interface {
	Enabled() bool
	SendNewComment(to string, data pkgmail.CommentData) error
	SendNewReply(to string, data pkgmail.CommentData) error
}

// Service sends comment notifications in the background. Failures are
// logged and never reach the caller.
type Service struct {
	mailer     Mailer
	adminEmail string
	baseURL    string
	log        *zap.Logger
	wg         sync.WaitGroup
}

// New creates a notification service. adminEmail receives new comment mails;
// baseURL prefixes post links.
func New(mailer Mailer, adminEmail, baseURL string, log *zap.Logger) *Service {
	return &Service{
		mailer:     mailer,
		adminEmail: strings.TrimSpace(adminEmail),
		baseURL:    strings.TrimRight(baseURL, "/"),
		log:        log.Named("notify"),
	}
}

// PostURL is the absolute link to the comments of a post.
func (s *Service) PostURL(postID uint) string {
	return fmt.Sprintf("%s/post/%d#comments", s.baseURL, postID)
}

// OnNewComment tells the blog owner a visitor comment waits for review.
func (s *Service) OnNewComment(blogTitle string, post *models.PostModel, cm *models.CommentModel) {
	if !s.mailer.Enabled() || s.adminEmail == "" {
		return
	}
	data := pkgmail.CommentData{
		BlogTitle: blogTitle,
		PostTitle: post.Title,
		PostURL:   s.PostURL(post.ID),
		Author:    cm.Author,
		Body:      cm.Body,
	}
	s.dispatch("new comment", func() error {
		return s.mailer.SendNewComment(s.adminEmail, data)
	})
}

// OnNewReply tells the author of replied that someone answered.
func (s *Service) OnNewReply(blogTitle string, post *models.PostModel, cm, replied *models.CommentModel) {
	if !s.mailer.Enabled() || replied == nil || replied.Email == "" {
		return
	}
	data := pkgmail.CommentData{
		BlogTitle:    blogTitle,
		PostTitle:    post.Title,
		PostURL:      s.PostURL(post.ID),
		Author:       cm.Author,
		Body:         cm.Body,
		OriginalBody: replied.Body,
	}
	s.dispatch("new reply", func() error {
		return s.mailer.SendNewReply(replied.Email, data)
	})
}

func (s *Service) dispatch(kind string, send func() error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := send(); err != nil {
			s.log.Warn("mail failed", zap.String("kind", kind), zap.Error(err))
			return
		}
		s.log.Debug("mail sent", zap.String("kind", kind))
	}()
}

// Wait blocks until every pending mail has been handled.
func (s *Service) Wait() { s.wg.Wait() }
