package transcribe

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
)

// LocalWhisper shells out to a local OpenAI Whisper install: ffmpeg
// converts the telegram .oga note to wav, then `python -m whisper`
// writes a .txt transcript. Requires python3 with the whisper package
// and ffmpeg on PATH.
type LocalWhisper struct {
	Model   string // tiny, base, small, medium, large
	TempDir string
	log     zerolog.Logger
}

func NewLocalWhisper(model, tempDir string, log zerolog.Logger) (*LocalWhisper, error) {
	if model == "" {
		model = "base"
	}
	if tempDir == "" {
		tempDir = filepath.Join(os.TempDir(), "kashflow-voice")
	}
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	return &LocalWhisper{Model: model, TempDir: tempDir, log: log}, nil
}

func (w *LocalWhisper) Transcribe(ctx context.Context, audioPath string) (string, error) {
	wavPath := filepath.Join(w.TempDir, strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))+".wav")
	defer os.Remove(wavPath)

	convert := exec.CommandContext(ctx, "ffmpeg", "-y", "-i", audioPath, "-ar", "16000", "-ac", "1", wavPath)
	if out, err := convert.CombinedOutput(); err != nil {
		return "", fmt.Errorf("ffmpeg: %w: %s", err, out)
	}

	whisper := exec.CommandContext(ctx, pythonCommand(), "-m", "whisper", wavPath,
		"--model", w.Model,
		"--language", "es",
		"--output_format", "txt",
		"--output_dir", w.TempDir,
		"--fp16", "False",
	)
	if out, err := whisper.CombinedOutput(); err != nil {
		return "", fmt.Errorf("whisper: %w: %s", err, out)
	}

	txtPath := strings.TrimSuffix(wavPath, ".wav") + ".txt"
	defer os.Remove(txtPath)

	raw, err := os.ReadFile(txtPath)
	if err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}

	transcript := strings.TrimSpace(string(raw))
	w.log.Debug().Str("transcript", transcript).Msg("voice note transcribed")
	return transcript, nil
}

func pythonCommand() string {
	if runtime.GOOS == "windows" {
		return "py"
	}
	return "python3"
}
