package service

import (
	"context"
	"errors"
	"lxp_backend/internal/model"
	"lxp_backend/internal/util"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChat_FallbackByErrorKind(t *testing.T) {
	cases := []struct {
		kind AIErrorKind
		want string
	}{
		{AIErrorTimeout, MsgFallbackTimeout},
		{AIErrorAuth, MsgFallbackAuth},
		{AIErrorRateLimit, MsgFallbackRateLimit},
		{AIErrorOther, MsgFallbackGeneric},
	}
	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			f := newFixture(t)
			st := f.student(t, "Ana", 8)
			f.llm.fail(tc.kind)

			session, err := f.mentor.Chat(context.Background(), ChatRequest{StudentID: st.ID, Query: "What is a variable?"})
			require.NoError(t, err)
			assert.Equal(t, tc.want, session.Response)
			assert.Equal(t, string(tc.kind), session.Outcome)

			require.NotZero(t, session.ID)
			stored, err := f.sessionRepo.FindByID(session.ID)
			require.NoError(t, err)
			assert.Equal(t, tc.want, stored.Response)
			assert.Equal(t, "What is a variable?", stored.Query)
			assert.Equal(t, model.SessionGuidance, stored.SessionType)
			assert.Equal(t, "Ana", stored.ContextData.Data().StudentName)
		})
	}
}

func TestChat_Success(t *testing.T) {
	f := newFixture(t)
	st := f.student(t, "Ben", 9)
	sub := f.subject(t, "Mathematics - Algebra")
	contents := f.contents(t, sub.ID, "Variables", "Equations")
	path, _ := f.path(t, st, sub, contents)
	f.llm.reply("  A variable stands for an unknown number.  \n")

	session, err := f.mentor.Chat(context.Background(), ChatRequest{
		StudentID:      st.ID,
		LearningPathID: uintPtr(path.ID),
		ContentID:      uintPtr(contents[1].ID),
		SessionType:    model.SessionHelp,
		Query:          "How do I solve 2x + 5 = 13?",
	})
	require.NoError(t, err)
	assert.Equal(t, "A variable stands for an unknown number.", session.Response)
	assert.Equal(t, "ok", session.Outcome)
	assert.Equal(t, model.SessionHelp, session.SessionType)

	require.Len(t, f.llm.calls, 1)
	call := f.llm.calls[0]
	assert.Equal(t, "How do I solve 2x + 5 = 13?", call.User)
	assert.Equal(t, 0.7, call.Temperature)
	assert.Equal(t, 15*time.Second, call.Timeout)
	assert.True(t, strings.HasPrefix(call.System, defaultPersona+"Address the student as Ben. The student is in grade 9. "+
		"They are currently studying Mathematics - Algebra. The difficulty level is beginner. "))
	assert.Contains(t, call.System, "\n\nCurrent learning context: The student is working on: 'Algebra Foundations' (Completion: 0%)")
	assert.Contains(t, call.System, "The student is currently viewing: 'Equations' (lesson).")

	snapshot := session.ContextData.Data()
	assert.Equal(t, "Mathematics - Algebra", snapshot.Subject)
	assert.Equal(t, "Equations", snapshot.CurrentContent)
}

func TestChat_RefusalIsRedirected(t *testing.T) {
	f := newFixture(t)
	st := f.student(t, "Cal", 9)
	f.llm.reply("I'm sorry, but I cannot help with that request.")

	session, err := f.mentor.Chat(context.Background(), ChatRequest{StudentID: st.ID, Query: "Do my homework"})
	require.NoError(t, err)
	assert.Equal(t, MsgRefusalRedirect, session.Response)
	assert.NotZero(t, session.ID)
}

func TestChat_EmptyResponseUsesGenericFallback(t *testing.T) {
	f := newFixture(t)
	st := f.student(t, "Dee", 9)
	f.llm.reply("   ")

	session, err := f.mentor.Chat(context.Background(), ChatRequest{StudentID: st.ID, Query: "Explain fractions"})
	require.NoError(t, err)
	assert.Equal(t, MsgFallbackGeneric, session.Response)
}

func TestChat_EmptyQuery(t *testing.T) {
	f := newFixture(t)
	st := f.student(t, "Eve", 9)

	session, err := f.mentor.Chat(context.Background(), ChatRequest{StudentID: st.ID, Query: " \n\t "})
	require.NoError(t, err)
	assert.Equal(t, MsgEmptyQuery, session.Response)
	assert.Zero(t, session.ID)
	assert.Equal(t, 0, f.llm.callCount())

	_, total, err := f.mentor.ListSessions(st.ID, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestChat_Validation(t *testing.T) {
	f := newFixture(t)
	st := f.student(t, "Fay", 9)
	other := f.student(t, "Gus", 9)
	sub := f.subject(t, "Algebra")
	path, _ := f.path(t, other, sub, f.contents(t, sub.ID, "Variables"))
	ctx := context.Background()

	_, err := f.mentor.Chat(ctx, ChatRequest{StudentID: 999, Query: "hi"})
	assert.True(t, errors.Is(err, util.ErrStudentNotFound))

	_, err = f.mentor.Chat(ctx, ChatRequest{StudentID: st.ID, SessionType: "gossip", Query: "hi"})
	assert.True(t, errors.Is(err, util.ErrValidation))

	_, err = f.mentor.Chat(ctx, ChatRequest{StudentID: st.ID, LearningPathID: uintPtr(path.ID), Query: "hi"})
	assert.True(t, errors.Is(err, util.ErrValidation))

	_, err = f.mentor.Chat(ctx, ChatRequest{StudentID: st.ID, ContentID: uintPtr(999), Query: "hi"})
	assert.True(t, errors.Is(err, util.ErrContentNotFound))
	assert.Equal(t, 0, f.llm.callCount())
}

func TestGenerateGoals_TooFewValidGoalsFallsBack(t *testing.T) {
	f := newFixture(t)
	f.llm.reply("Here are your goals:\n- Learn to solve linear equations\n- Short\n* Practice graphing lines daily\nThanks!")

	goals := f.mentor.GenerateGoals(context.Background(), 9, "Algebra", "beginner")
	assert.Equal(t, FallbackGoals("Algebra", "beginner"), goals)
	assert.Equal(t, []string{
		"Understand and master core concepts in Algebra",
		"Complete all assigned content at beginner level with 80%+ accuracy",
		"Apply Algebra knowledge to solve real-world problems",
		"Demonstrate mastery through assessments and projects",
	}, goals)
	require.Len(t, f.llm.calls, 1)
	assert.Equal(t, goalSystemPrompt, f.llm.calls[0].System)
	assert.Equal(t, 10*time.Second, f.llm.calls[0].Timeout)
}

func TestGenerateGoals_ParsesAndCaps(t *testing.T) {
	f := newFixture(t)
	f.llm.reply(strings.Join([]string{
		"1. Solve one-step linear equations accurately",
		"2. Solve two-step linear equations accurately",
		"• Translate word problems into equations",
		"* Check solutions by substitution every time",
		"- Explain each step of a solution in writing",
		"- Graph a linear equation from a table",
	}, "\n"))

	goals := f.mentor.GenerateGoals(context.Background(), 9, "Algebra", "beginner")
	assert.Equal(t, []string{
		"Solve one-step linear equations accurately",
		"Solve two-step linear equations accurately",
		"Translate word problems into equations",
		"Check solutions by substitution every time",
		"Explain each step of a solution in writing",
	}, goals)
}

func TestGenerateGoals_InvalidInputSkipsModel(t *testing.T) {
	f := newFixture(t)
	goals := f.mentor.GenerateGoals(context.Background(), 0, "", "advanced")
	assert.Equal(t, "Understand and master core concepts in the subject", goals[0])
	assert.Equal(t, "Complete all assigned content at advanced level with 80%+ accuracy", goals[1])
	assert.Equal(t, 0, f.llm.callCount())
}

func TestGenerateGoals_ErrorFallsBack(t *testing.T) {
	f := newFixture(t)
	f.llm.fail(AIErrorTimeout)
	assert.Equal(t, FallbackGoals("Biology", "intermediate"), f.mentor.GenerateGoals(context.Background(), 9, "Biology", "intermediate"))
}

func TestParseGoals(t *testing.T) {
	assert.Equal(t, []string{"exactly ten"}, ParseGoals("- exactly ten\n- nine char"))
	assert.Empty(t, ParseGoals("No list here\nStill no list"))
	assert.Equal(t, []string{"Twelve apples"}, ParseGoals("12. Twelve apples"))
}

func TestGenerateFeedback(t *testing.T) {
	f := newFixture(t)
	f.llm.reply(" Nice effort! Review slope. ")
	text := f.mentor.GenerateFeedback(context.Background(), 50, "Algebra", []string{"Q3", "Q4"})
	assert.Equal(t, "Nice effort! Review slope.", text)
	assert.Equal(t, "A student scored 50.0% on a Algebra assessment. They struggled with: Q3, Q4. "+
		"Provide encouraging, specific feedback (2-3 sentences) on how to improve.", f.llm.calls[0].User)
	assert.Empty(t, f.llm.calls[0].System)
}

func TestGenerateFeedback_FallbackBands(t *testing.T) {
	f := newFixture(t)
	f.llm.fail(AIErrorRateLimit)
	ctx := context.Background()

	assert.Equal(t, "Great job! You scored 85.0% which shows strong understanding. Keep up the excellent work!",
		f.mentor.GenerateFeedback(ctx, 85, "Algebra", nil))
	assert.Equal(t, "You scored 80.0% which shows strong understanding. Keep up the excellent work!",
		strings.TrimPrefix(f.mentor.GenerateFeedback(ctx, 80, "Algebra", nil), "Great job! "))
	assert.True(t, strings.HasPrefix(f.mentor.GenerateFeedback(ctx, 60, "Algebra", nil), "You scored 60.0%. You're on the right track!"))
	assert.True(t, strings.HasPrefix(f.mentor.GenerateFeedback(ctx, 59.5, "Algebra", nil), "You scored 59.5%. Don't worry - learning takes time!"))
}

func TestRateSession(t *testing.T) {
	f := newFixture(t)
	st := f.student(t, "Hal", 9)
	f.llm.reply("Sure, here is how.")
	session, err := f.mentor.Chat(context.Background(), ChatRequest{StudentID: st.ID, Query: "Help"})
	require.NoError(t, err)

	helpful := true
	rated, err := f.mentor.RateSession(session.ID, RateSessionRequest{Helpful: &helpful, Rating: intPtr(5)})
	require.NoError(t, err)
	require.NotNil(t, rated.Helpful)
	assert.True(t, *rated.Helpful)
	assert.Equal(t, 5, *rated.Rating)
	assert.Equal(t, session.Response, rated.Response)

	_, err = f.mentor.RateSession(session.ID, RateSessionRequest{Rating: intPtr(6)})
	assert.True(t, errors.Is(err, util.ErrValidation))
	_, err = f.mentor.RateSession(session.ID, RateSessionRequest{})
	assert.True(t, errors.Is(err, util.ErrValidation))
	_, err = f.mentor.RateSession(4242, RateSessionRequest{Rating: intPtr(3)})
	assert.True(t, errors.Is(err, util.ErrSessionNotFound))
}
