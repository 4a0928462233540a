package helpers

import (
	"os"
)

// CreateConfigFile writes content to a temp file with the given extension
// (for example ".properties" or ".yml") and returns its path and a cleanup func.
func CreateConfigFile(content string, ext string) (string, func(), error) {
	tmpFile, err := os.CreateTemp("", "*"+ext)
	if err != nil {
		return "", nil, err
	}

	if _, err = tmpFile.WriteString(content); err != nil {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
		return "", nil, err
	}

	return tmpFile.Name(), func() {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
	}, nil
}
