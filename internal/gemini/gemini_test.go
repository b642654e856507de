package gemini

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"
	"google.golang.org/genai"
)

func textResponse(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Role: "model", Parts: parts}},
		},
	}
}

func TestClient_Generate(t *testing.T) {
	tests := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		err     error
		want    string
		wantErr string
	}{
		{
			name: "single part",
			resp: textResponse(&genai.Part{Text: "Hi there!"}),
			want: "Hi there!",
		},
		{
			name: "joins parts and skips thoughts",
			resp: textResponse(
				&genai.Part{Text: "thinking", Thought: true},
				&genai.Part{Text: "Hello, "},
				&genai.Part{Text: "world"},
			),
			want: "Hello, world",
		},
		{
			name: "empty text with STOP",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content:      &genai.Content{Role: "model", Parts: []*genai.Part{{Text: ""}}},
				FinishReason: genai.FinishReasonStop,
			}}},
			want: "",
		},
		{
			name:    "no candidates",
			resp:    &genai.GenerateContentResponse{},
			wantErr: "gemini returned no candidates",
		},
		{
			name:    "nil response",
			wantErr: "gemini returned no candidates",
		},
		{
			name: "blocked prompt",
			resp: &genai.GenerateContentResponse{
				PromptFeedback: &genai.GenerateContentResponsePromptFeedback{
					BlockReason: genai.BlockedReasonSafety,
				},
			},
			wantErr: "prompt blocked: SAFETY",
		},
		{
			name: "blocked prompt with message",
			resp: &genai.GenerateContentResponse{
				PromptFeedback: &genai.GenerateContentResponsePromptFeedback{
					BlockReason:        genai.BlockedReasonOther,
					BlockReasonMessage: "prompt was flagged",
				},
			},
			wantErr: "prompt blocked: OTHER: prompt was flagged",
		},
		{
			name: "safety stop without text",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				FinishReason: genai.FinishReasonSafety,
			}}},
			wantErr: "generation stopped: SAFETY",
		},
		{
			name: "finish message is appended",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content:       &genai.Content{Role: "model"},
				FinishReason:  genai.FinishReasonRecitation,
				FinishMessage: "matched a source",
			}}},
			wantErr: "generation stopped: RECITATION: matched a source",
		},
		{
			name: "partial text kept on MAX_TOKENS",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content:      &genai.Content{Role: "model", Parts: []*genai.Part{{Text: "Hello"}}},
				FinishReason: genai.FinishReasonMaxTokens,
			}}},
			want: "Hello",
		},
		{
			name:    "candidate without content",
			resp:    &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}},
			wantErr: "gemini returned a candidate without content",
		},
		{
			name:    "provider error verbatim",
			err:     errors.New("quota exceeded"),
			wantErr: "quota exceeded",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			models := NewMockModels(ctrl)
			models.EXPECT().
				GenerateContent(gomock.Any(), "gemini-2.5-flash", genai.Text("Say hi"), gomock.Nil()).
				Return(tt.resp, tt.err)

			got, err := NewWithModels(models, 0).Generate(context.Background(), "gemini-2.5-flash", "Say hi")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_GenerateAppliesTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	models := NewMockModels(ctrl)
	models.EXPECT().
		GenerateContent(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, _ []*genai.Content,
			_ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			_, ok := ctx.Deadline()
			assert.True(t, ok, "expected a deadline on the provider context")
			return textResponse(&genai.Part{Text: "ok"}), nil
		})

	got, err := NewWithModels(models, time.Minute).Generate(context.Background(), "gemini-2.0-flash", "ping")
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}

func TestClient_GeneratePassesEmptyPrompt(t *testing.T) {
	ctrl := gomock.NewController(t)
	models := NewMockModels(ctrl)
	models.EXPECT().
		GenerateContent(gomock.Any(), "gemini-1.5-pro", genai.Text(""), gomock.Nil()).
		Return(nil, errors.New("contents must not be empty"))

	_, err := NewWithModels(models, 0).Generate(context.Background(), "gemini-1.5-pro", "")
	assert.EqualError(t, err, "contents must not be empty")
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(context.Background(), "", 0)
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	c, err := New(context.Background(), "APIKey", 30*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, c.Timeout)
}

// MockModels is a mock of Models interface.
type MockModels struct {
	ctrl     *gomock.Controller
	recorder *MockModelsMockRecorder
	isgomock struct{}
}

// MockModelsMockRecorder is the mock recorder for MockModels.
type MockModelsMockRecorder struct {
	mock *MockModels
}

// NewMockModels creates a new mock instance.
func NewMockModels(ctrl *gomock.Controller) *MockModels {
	mock := &MockModels{ctrl: ctrl}
	mock.recorder = &MockModelsMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockModels) EXPECT() *MockModelsMockRecorder {
	return m.recorder
}

// GenerateContent mocks base method.
func (m *MockModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GenerateContent", ctx, model, contents, config)
	ret0, _ := ret[0].(*genai.GenerateContentResponse)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GenerateContent indicates an expected call of GenerateContent.
func (mr *MockModelsMockRecorder) GenerateContent(ctx, model, contents, config any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GenerateContent", reflect.TypeOf((*MockModels)(nil).GenerateContent), ctx, model, contents, config)
}
