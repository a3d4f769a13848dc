package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/discoverdiani/discovery-platform/internal/ai"
	"github.com/discoverdiani/discovery-platform/internal/analytics"
	"github.com/discoverdiani/discovery-platform/internal/model"
	"github.com/discoverdiani/discovery-platform/pkg/logger"
)

type stubGateway struct {
	text  ai.Response
	image ai.Response
	voice ai.Response
}

func (g *stubGateway) Query(ctx context.Context, prompt string) ai.Response { return g.text }
func (g *stubGateway) AnalyzeImage(ctx context.Context, imageURL string) ai.Response {
	return g.image
}
func (g *stubGateway) TranscribeAudio(ctx context.Context, audio []byte, filename string) ai.Response {
	return g.voice
}

func TestTextSearchRecordsSuccess(t *testing.T) {
	agg := analytics.New(analytics.Options{}, nil, logger.NewNop())
	gw := &stubGateway{text: ai.Response{Text: "try Ali Barbour's", Source: model.SourceGrok}}
	svc := NewSearchService(gw, agg, logger.NewNop())

	resp := svc.Text(context.Background(), "best seafood", Requester{UserID: "user_a"})
	require.Empty(t, resp.Err)

	snap := agg.Snapshot()
	require.EqualValues(t, 1, snap.TotalSearches)
	require.Equal(t, 100.0, snap.SearchSuccessRate)
	require.Equal(t, 1, snap.SearchTypes[model.SearchTypeText])
	require.Equal(t, 1, snap.APIUsage[model.SourceGrok])
}

func TestFailedSearchRecordsError(t *testing.T) {
	agg := analytics.New(analytics.Options{}, nil, logger.NewNop())
	gw := &stubGateway{image: ai.Response{Err: "vision quota exceeded", Source: model.SourceGemini}}
	svc := NewSearchService(gw, agg, logger.NewNop())

	resp := svc.Image(context.Background(), "https://example.com/x.jpg", Requester{UserID: "user_a"})
	require.NotEmpty(t, resp.Err)

	snap := agg.Snapshot()
	require.EqualValues(t, 1, snap.TotalSearches)
	require.Equal(t, 100.0, snap.ErrorRate)
	require.Equal(t, 1, snap.SearchTypes[model.SearchTypeImage])

	report := agg.Report(model.RangeHour)
	require.Len(t, report.ErrorAnalysis, 1)
	require.Equal(t, "vision quota exceeded", report.ErrorAnalysis[0].Type)
}

func TestVoiceSearchRecordsTranscriptAsQuery(t *testing.T) {
	agg := analytics.New(analytics.Options{}, nil, logger.NewNop())
	gw := &stubGateway{voice: ai.Response{Text: "glass bottom boat tours", Source: model.SourceWhisper}}
	svc := NewSearchService(gw, agg, logger.NewNop())

	svc.Voice(context.Background(), []byte("audio"), "clip.webm", Requester{UserID: "user_a"})

	report := agg.Report(model.RangeHour)
	require.Len(t, report.TopQueries, 1)
	require.Equal(t, "glass bottom boat tours", report.TopQueries[0].Query)
	require.Equal(t, 1, agg.Snapshot().APIUsage[model.SourceWhisper])
}
