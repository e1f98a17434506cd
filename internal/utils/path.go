// utils/path.go - Path handling utilities
package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

var (
	AppRootDir = "./.databinding-hunter"
	LogsDir    = "./.databinding-hunter/logs"
	JournalDir = "./.databinding-hunter/journal"
	DbDir      = "./.databinding-hunter/db"
)

// HomeEnv 非空时直接作为根目录
const HomeEnv = "DATABINDING_HUNTER_HOME"

// GetRootDir gets cross-platform root directory and creates it.
// Windows: %USERPROFILE%/.appname, Linux: $XDG_CONFIG_HOME/appname or ~/.appname, macOS: ~/.appname
func GetRootDir(appName string) (string, error) {
	rootDir, err := rootDirFor(runtime.GOOS, appName, os.Getenv)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(rootDir, 0755); err != nil {
		return "", err
	}
	AppRootDir = rootDir
	return rootDir, nil
}

func rootDirFor(goos, appName string, getenv func(string) string) (string, error) {
	if home := getenv(HomeEnv); home != "" {
		return home, nil
	}

	dotDir := "." + appName
	switch goos {
	case "windows":
		if userProfile := getenv("USERPROFILE"); userProfile != "" {
			return filepath.Join(userProfile, dotDir), nil
		}
		if appData := getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appName), nil
		}
	case "darwin":
	default:
		if xdgConfig := getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			return filepath.Join(xdgConfig, appName), nil
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(homeDir, dotDir), nil
}

// GetLogDir gets log directory
func GetLogDir(rootPath string) (string, error) {
	logPath, err := subDir(rootPath, "logs")
	if err != nil {
		return "", err
	}
	LogsDir = logPath
	return logPath, nil
}

// GetJournalDir gets the undo journal directory
func GetJournalDir(rootPath string) (string, error) {
	journalPath, err := subDir(rootPath, "journal")
	if err != nil {
		return "", err
	}
	JournalDir = journalPath
	return journalPath, nil
}

// GetDbDir gets the run history database directory
func GetDbDir(rootPath string) (string, error) {
	dbPath, err := subDir(rootPath, "db")
	if err != nil {
		return "", err
	}
	DbDir = dbPath
	return dbPath, nil
}

func subDir(rootPath, name string) (string, error) {
	if _, err := os.Stat(rootPath); os.IsNotExist(err) {
		return "", fmt.Errorf("root path %s does not exist", rootPath)
	}

	path := filepath.Join(rootPath, name)
	if err := os.MkdirAll(path, 0755); err != nil {
		return "", err
	}
	return path, nil
}
