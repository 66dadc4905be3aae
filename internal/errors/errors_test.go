package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/geocards/geocards-api/internal/errors"
)

type ErrorsTestSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}

func (s *ErrorsTestSuite) TestNewError() {
	testCases := []struct {
		name     string
		code     errors.Code
		message  string
		expected string
	}{
		{
			name:     "not found error",
			code:     errors.CodeNotFound,
			message:  "card not found",
			expected: "NOT_FOUND: card not found",
		},
		{
			name:     "failed precondition error",
			code:     errors.CodeFailedPrecondition,
			message:  "battle already in progress",
			expected: "FAILED_PRECONDITION: battle already in progress",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := errors.New(tc.code, tc.message)
			s.Equal(tc.expected, err.Error())
			s.Equal(tc.code, err.Code)
			s.Equal(tc.message, err.Message)
		})
	}
}

func (s *ErrorsTestSuite) TestWrap() {
	baseErr := fmt.Errorf("connection refused")
	wrapped := errors.Wrap(baseErr, "failed to load profile")

	s.Equal(errors.CodeInternal, wrapped.Code)
	s.Equal("failed to load profile", wrapped.Message)
	s.Equal(baseErr, wrapped.Unwrap())
}

func (s *ErrorsTestSuite) TestWrapPreservesCodeAndMeta() {
	baseErr := errors.NotFound("guild not found").WithMeta("guild_id", "g1")
	wrapped := errors.Wrap(baseErr, "failed to join guild")

	s.Equal(errors.CodeNotFound, wrapped.Code)
	s.Equal("g1", errors.GetMeta(wrapped)["guild_id"])
	s.True(errors.IsNotFound(wrapped))
}

func (s *ErrorsTestSuite) TestWrapWithCode() {
	baseErr := errors.Internal("dial tcp: timeout").WithMeta("path", "cards")
	wrapped := errors.WrapWithCode(baseErr, errors.CodeUnavailable, "document store unavailable")

	s.Equal(errors.CodeUnavailable, wrapped.Code)
	s.Equal("cards", wrapped.Meta["path"])
	s.Equal(baseErr, wrapped.Unwrap())
}

func (s *ErrorsTestSuite) TestWrapNil() {
	s.Nil(errors.Wrap(nil, "should be nil"))
	s.Nil(errors.WrapWithCode(nil, errors.CodeNotFound, "should be nil"))
}

func (s *ErrorsTestSuite) TestErrorIs() {
	s.True(errors.Is(errors.Wrap(errors.NotFound("a"), "b"), errors.NotFound("c")))
	s.False(errors.NotFound("a").Is(errors.InvalidArgument("a")))
}

func (s *ErrorsTestSuite) TestGetCode() {
	s.Equal(errors.CodeNotFound, errors.GetCode(errors.Wrap(errors.NotFound("x"), "y")))
	s.Equal(errors.CodeInternal, errors.GetCode(fmt.Errorf("standard error")))
	s.Equal(errors.CodeOK, errors.GetCode(nil))
}

func (s *ErrorsTestSuite) TestUserMessage() {
	testCases := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil", nil, ""},
		{"rejection keeps message", errors.FailedPrecondition("not your turn"), "not your turn"},
		{"unavailable is generic", errors.Unavailable("redis: connection pool timeout"), "the game service is temporarily unavailable, try again"},
		{"plain error is generic", fmt.Errorf("boom"), "something went wrong, try again"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, errors.UserMessage(tc.err))
		})
	}
}

func (s *ErrorsTestSuite) TestValidationBuilder() {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("name", "  ", vb)
	errors.ValidateMaxLength("text", "abcdef", 3, vb)
	errors.ValidateRange("count", 11, 1, 10, vb)
	errors.ValidateEnum("type", "secret", []string{"public", "private"}, vb)

	err := vb.Build()
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	s.Equal(
		"validation failed: count: must be between 1 and 10; name: is required; "+
			"text: must be no more than 3 characters; type: must be one of: public, private",
		errors.GetMessage(err),
	)

	s.NoError(errors.NewValidationBuilder().Build())
}

func (s *ErrorsTestSuite) TestGRPCConversion() {
	err := errors.NotFound("card not found").WithMeta("card_id", "card_1")

	grpcErr := errors.ToGRPCError(err)
	st, ok := status.FromError(grpcErr)
	s.Require().True(ok)
	s.Equal(codes.NotFound, st.Code())
	s.Equal("card not found", st.Message())

	back := errors.FromGRPCError(grpcErr)
	s.Equal(errors.CodeNotFound, errors.GetCode(back))
	s.Equal("card_1", errors.GetMeta(back)["card_id"])

	plain := errors.FromGRPCError(status.Error(codes.InvalidArgument, "invalid input"))
	s.Equal(errors.CodeInvalidArgument, errors.GetCode(plain))
	s.Equal("invalid input", errors.GetMessage(plain))
}

func (s *ErrorsTestSuite) TestGRPCConversionWithValidationMeta() {
	vb := errors.NewValidationBuilder()
	vb.RequiredField("email")

	st, ok := status.FromError(errors.ToGRPCError(vb.Build()))
	s.Require().True(ok)
	s.Equal(codes.InvalidArgument, st.Code())
	s.Len(st.Details(), 1)
}

func (s *ErrorsTestSuite) TestGRPCCodeMapping() {
	testCases := []struct {
		code     errors.Code
		expected codes.Code
	}{
		{errors.CodeNotFound, codes.NotFound},
		{errors.CodeInvalidArgument, codes.InvalidArgument},
		{errors.CodeFailedPrecondition, codes.FailedPrecondition},
		{errors.CodeAborted, codes.Aborted},
		{errors.CodeUnavailable, codes.Unavailable},
		{errors.CodeUnauthenticated, codes.Unauthenticated},
	}

	for _, tc := range testCases {
		s.Run(string(tc.code), func() {
			s.Equal(tc.expected, tc.code.GRPCCode())
		})
	}
}
