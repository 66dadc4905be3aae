package cards_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/geocards/geocards-api/internal/docstore"
	"github.com/geocards/geocards-api/internal/entities"
	"github.com/geocards/geocards-api/internal/errors"
	"github.com/geocards/geocards-api/internal/repositories/cards"
	"github.com/geocards/geocards-api/internal/testutils"
)

type DocstoreRepositoryTestSuite struct {
	suite.Suite
	store *docstore.Memory
	repo  cards.Repository
	ctx   context.Context
}

func TestDocstoreRepositorySuite(t *testing.T) {
	suite.Run(t, new(DocstoreRepositoryTestSuite))
}

func (s *DocstoreRepositoryTestSuite) SetupTest() {
	s.store = docstore.NewMemory()
	repo, err := cards.NewDocstoreRepository(&cards.Config{Store: s.store})
	s.Require().NoError(err)
	s.repo = repo
	s.ctx = context.Background()
}

func (s *DocstoreRepositoryTestSuite) TestListAllEmpty() {
	out, err := s.repo.ListAll(s.ctx, cards.ListAllInput{})
	s.Require().NoError(err)
	s.Empty(out.Cards)
}

func (s *DocstoreRepositoryTestSuite) TestReplaceAllAndList() {
	_, err := s.repo.ReplaceAll(s.ctx, cards.ReplaceAllInput{Cards: []*entities.Card{
		testutils.FieldCard("c1", testutils.MoscowCenter, 3),
		testutils.FieldCard("c2", testutils.MoscowCenter, 5),
	}})
	s.Require().NoError(err)

	out, err := s.repo.ListAll(s.ctx, cards.ListAllInput{})
	s.Require().NoError(err)
	s.Len(out.Cards, 2)
	s.Equal(5, out.Cards["c2"].Power)

	_, err = s.repo.ReplaceAll(s.ctx, cards.ReplaceAllInput{Cards: []*entities.Card{
		testutils.FieldCard("c3", testutils.MoscowCenter, 1),
	}})
	s.Require().NoError(err)

	out, err = s.repo.ListAll(s.ctx, cards.ListAllInput{})
	s.Require().NoError(err)
	s.Len(out.Cards, 1)
	s.Contains(out.Cards, "c3")
}

func (s *DocstoreRepositoryTestSuite) TestReplaceAllRejectsMissingID() {
	_, err := s.repo.ReplaceAll(s.ctx, cards.ReplaceAllInput{Cards: []*entities.Card{{Name: "nameless"}}})
	s.Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *DocstoreRepositoryTestSuite) TestMarkCollectedAppendsClaimants() {
	_, err := s.repo.ReplaceAll(s.ctx, cards.ReplaceAllInput{Cards: []*entities.Card{
		testutils.FieldCard("c1", testutils.MoscowCenter, 3),
	}})
	s.Require().NoError(err)

	for _, uid := range []string{"user_1", "user_2"} {
		_, err = s.repo.MarkCollected(s.ctx, cards.MarkCollectedInput{CardID: "c1", UserID: uid})
		s.Require().NoError(err)
	}

	out, err := s.repo.ListAll(s.ctx, cards.ListAllInput{})
	s.Require().NoError(err)
	s.True(out.Cards["c1"].CollectedBy("user_1"))
	s.True(out.Cards["c1"].CollectedBy("user_2"))
	s.Equal(3, out.Cards["c1"].Power)
}

func (s *DocstoreRepositoryTestSuite) TestMarkCollectedValidation() {
	_, err := s.repo.MarkCollected(s.ctx, cards.MarkCollectedInput{UserID: "user_1"})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.MarkCollected(s.ctx, cards.MarkCollectedInput{CardID: "c1"})
	s.True(errors.IsInvalidArgument(err))
}
