package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiScorer implements Scorer on top of the Gemini API.
type GeminiScorer struct {
	client *genai.Client
	model  string
}

// NewGeminiScorer creates a Gemini-backed scorer. modelName defaults to
// gemini-2.0-flash when empty.
func NewGeminiScorer(ctx context.Context, apiKey, modelName string) (*GeminiScorer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}
	return &GeminiScorer{client: client, model: modelName}, nil
}

// Close releases the underlying API client.
func (g *GeminiScorer) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

const resumePromptTemplate = `Anda adalah perekrut teknis. Analisis resume berikut terhadap persyaratan posisi.

Posisi: %s

Persyaratan:
%s

Resume:
%s

Kembalikan JSON dengan struktur persis:
{
  "match_score": float (0-100, seberapa cocok resume dengan persyaratan),
  "skill_matches": [string],
  "experience_match": string,
  "qualification_match": string,
  "is_fake": bool (true jika resume menunjukkan indikasi fabrikasi atau tidak konsisten),
  "fake_reasons": [string],
  "overall_analysis": string
}

Kembalikan HANYA JSON mentah tanpa markdown.`

// MatchResume scores a resume against a job's requirements and flags
// likely fabrication.
func (g *GeminiScorer) MatchResume(ctx context.Context, resumeText, jobTitle, jobRequirements string) (*ResumeAnalysis, error) {
	prompt := fmt.Sprintf(resumePromptTemplate, jobTitle, jobRequirements, resumeText)

	raw, err := g.generateJSON(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var analysis ResumeAnalysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return nil, fmt.Errorf("parse resume analysis: %w", err)
	}
	analysis.MatchScore = clampScore(analysis.MatchScore)
	return &analysis, nil
}

const gradePromptTemplate = `Anda adalah penilai jawaban esai teknis. Nilai jawaban kandidat berikut.

Soal:
%s

Poin kunci yang diharapkan:
%s

Rubrik penilaian:
%s

Jawaban kandidat:
%s

Kembalikan JSON dengan struktur persis:
{
  "score": float (0-100),
  "feedback": string,
  "key_points_covered": [string],
  "improvements": [string],
  "rubric_feedback": string
}

Kembalikan HANYA JSON mentah tanpa markdown.`

// GradeAnswer grades one subjective answer against the question's key
// points and rubric. The returned score is 0-100.
func (g *GeminiScorer) GradeAnswer(ctx context.Context, question, rubric string, keyPoints []string, answer string) (*AnswerGrade, error) {
	points := "-"
	if len(keyPoints) > 0 {
		points = "- " + strings.Join(keyPoints, "\n- ")
	}
	if rubric == "" {
		rubric = "Nilai berdasarkan kelengkapan dan ketepatan teknis."
	}
	prompt := fmt.Sprintf(gradePromptTemplate, question, points, rubric, answer)

	raw, err := g.generateJSON(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var grade AnswerGrade
	if err := json.Unmarshal([]byte(raw), &grade); err != nil {
		return nil, fmt.Errorf("parse answer grade: %w", err)
	}
	grade.Score = clampScore(grade.Score)
	return &grade, nil
}

func (g *GeminiScorer) generateJSON(ctx context.Context, prompt string) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(0.1)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	text, err := extractText(resp)
	if err != nil {
		return "", err
	}
	return cleanJSONBlock(text), nil
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return strings.Join(parts, ""), nil
}

// cleanJSONBlock removes markdown code block wrappers the model may
// still emit despite the JSON response MIME type.
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
