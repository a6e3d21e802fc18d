package usecase

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const versionsPath = "buildSrc/src/main/kotlin/ProjectVersions.kt"

const versionsContent = `package config

object ProjectVersions {
    const val androidSdk = "34"
    const val thisLibrary = "3.0.0-SNAPSHOT"
}
`

func writeVersionsFile(t *testing.T, fs afero.Fs, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, versionsPath, []byte(content), 0o644))
}

func TestReadVersionUseCase(t *testing.T) {
	newUseCase := func(fs afero.Fs) *ReadVersionUseCase {
		return &ReadVersionUseCase{
			Fs:         fs,
			Path:       versionsPath,
			LinePrefix: "const val thisLibrary = ",
		}
	}
	t.Run("Should read the declared version", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeVersionsFile(t, fs, versionsContent)
		version, err := newUseCase(fs).Execute(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "3.0.0-SNAPSHOT", version)
	})
	t.Run("Should fail when no line matches the prefix", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeVersionsFile(t, fs, "object ProjectVersions {}\n")
		_, err := newUseCase(fs).Execute(context.Background())
		assert.Error(t, err)
	})
	t.Run("Should fail when more than one line matches", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeVersionsFile(t, fs, versionsContent+"const val thisLibrary = \"duplicate\"\n")
		_, err := newUseCase(fs).Execute(context.Background())
		assert.Error(t, err)
	})
	t.Run("Should fail when the version is not quoted", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeVersionsFile(t, fs, "const val thisLibrary = 3.0.0\n")
		_, err := newUseCase(fs).Execute(context.Background())
		assert.Error(t, err)
	})
	t.Run("Should fail when the version file is missing", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		_, err := newUseCase(fs).Execute(context.Background())
		assert.Error(t, err)
	})
}
