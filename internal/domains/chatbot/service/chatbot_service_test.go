package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-backend/internal/domains/chatbot"
	"portfolio-backend/internal/domains/portfolio"
	"portfolio-backend/internal/infrastructure/gemini"
)

type fakeContent struct {
	calls int
	err   error
}

func (f *fakeContent) Snapshot(context.Context) (*portfolio.Snapshot, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &portfolio.Snapshot{Profile: &portfolio.Profile{Name: "Jane"}}, nil
}

type fakeGenerator struct {
	got    gemini.Request
	reply  string
	chunks []string
	err    error
}

func (g *fakeGenerator) Generate(_ context.Context, req gemini.Request) (string, error) {
	g.got = req
	return g.reply, g.err
}

func (g *fakeGenerator) Stream(_ context.Context, req gemini.Request, onChunk func(string) error) error {
	g.got = req
	for _, c := range g.chunks {
		if err := onChunk(c); err != nil {
			return err
		}
	}
	return g.err
}

func TestAsk(t *testing.T) {
	content := &fakeContent{}
	gen := &fakeGenerator{reply: "Jane writes Go."}
	svc := NewChatbotService(content, gen, "")

	text, err := svc.Ask(context.Background(), chatbot.AskRequest{
		Query:   " What does Jane use? ",
		History: []chatbot.Turn{{Role: "user", Content: "hi"}, {Role: "model", Content: "hello"}},
	})

	require.NoError(t, err)
	assert.Equal(t, "Jane writes Go.", text)
	assert.Equal(t, 1, content.calls)
	require.Len(t, gen.got.Contents, 3)
	assert.Equal(t, "What does Jane use?", gen.got.Contents[2].Parts[0].Text)
	assert.Equal(t, gemini.RoleModel, gen.got.Contents[1].Role)
	assert.Contains(t, gen.got.SystemInstruction.Parts[0].Text, "about Jane")
}

func TestAsk_QueryRequired(t *testing.T) {
	content := &fakeContent{}
	svc := NewChatbotService(content, &fakeGenerator{}, "")

	_, err := svc.Ask(context.Background(), chatbot.AskRequest{Query: "  "})
	assert.ErrorIs(t, err, chatbot.ErrQueryRequired)
	assert.Zero(t, content.calls, "no snapshot for invalid input")
}

func TestAsk_UpstreamFailureIsGeneric(t *testing.T) {
	svc := NewChatbotService(&fakeContent{}, &fakeGenerator{err: errors.New("status 500: api key leaked")}, "")

	_, err := svc.Ask(context.Background(), chatbot.AskRequest{Query: "hi"})
	assert.ErrorIs(t, err, chatbot.ErrUpstream)
	assert.NotContains(t, err.Error(), "api key")
}

func TestAsk_SnapshotFailure(t *testing.T) {
	svc := NewChatbotService(&fakeContent{err: errors.New("db down")}, &fakeGenerator{}, "")

	_, err := svc.Ask(context.Background(), chatbot.AskRequest{Query: "hi"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, chatbot.ErrUpstream)
}

func TestStream(t *testing.T) {
	gen := &fakeGenerator{chunks: []string{"a", "b"}}
	svc := NewChatbotService(&fakeContent{}, gen, "You are Friday.")

	var got []string
	err := svc.Stream(context.Background(), chatbot.AskRequest{Query: "hi"}, func(s string) error {
		got = append(got, s)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Contains(t, gen.got.SystemInstruction.Parts[0].Text, "You are Friday.")
}

func TestStream_UpstreamError(t *testing.T) {
	gen := &fakeGenerator{chunks: []string{"a"}, err: errors.New("connection reset")}
	svc := NewChatbotService(&fakeContent{}, gen, "")

	err := svc.Stream(context.Background(), chatbot.AskRequest{Query: "hi"}, func(string) error { return nil })
	assert.ErrorIs(t, err, chatbot.ErrUpstream)
}

func TestStream_ClientGone(t *testing.T) {
	gen := &fakeGenerator{chunks: []string{"a", "b"}}
	svc := NewChatbotService(&fakeContent{}, gen, "")
	gone := errors.New("write: broken pipe")

	err := svc.Stream(context.Background(), chatbot.AskRequest{Query: "hi"}, func(string) error { return gone })
	assert.ErrorIs(t, err, gone)
	assert.NotErrorIs(t, err, chatbot.ErrUpstream)
}
