package main

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/roemer/goext"
	"github.com/roemer/gotaskr"
	"github.com/roemer/gotaskr/execr"
)

// Internal variables
var outputDirectory = ".build-output"
var version = "0.1.0"

type target struct {
	task string
	os   string
	arch string
	ext  string
}

var targets = []target{
	{task: "Compile:Windows", os: "windows", arch: "amd64", ext: ".exe"},
	{task: "Compile:Linux", os: "linux", arch: "amd64"},
	{task: "Compile:LinuxArm", os: "linux", arch: "arm64"},
	{task: "Compile:Mac", os: "darwin", arch: "amd64"},
	{task: "Compile:MacArm", os: "darwin", arch: "arm64"},
}

func main() {
	os.Exit(gotaskr.Execute())
}

func init() {
	for _, t := range targets {
		gotaskr.Task(t.task, func() error {
			os.Setenv("GOOS", t.os)
			os.Setenv("GOARCH", t.arch)
			os.Setenv("CGO_ENABLED", "0")

			path, err := compile(t.ext)
			if err != nil {
				return err
			}
			return zipRelease(path)
		})
	}

	gotaskr.Task("Compile:All", func() error {
		return nil
	}).DependsOn("Compile:Windows", "Compile:Linux", "Compile:LinuxArm", "Compile:Mac", "Compile:MacArm")
}

// Gets the version from the latest git tag, falls back to the static version.
func resolveVersion() string {
	stdout, _, err := goext.CmdRunners.Default.RunGetOutput("git", "describe", "--tags", "--always")
	if err != nil || strings.TrimSpace(stdout) == "" {
		return version
	}
	return strings.TrimPrefix(strings.TrimSpace(stdout), "v")
}

func compile(ext string) (string, error) {
	outputFile := filepath.Join(outputDirectory, "releasegate"+ext)
	ldflags := fmt.Sprintf("-s -w -X github.com/roemer/releasegate/internal/app/releasegate.Version=%s", resolveVersion())
	return outputFile, execr.Run(true, "go", "build", "-ldflags", ldflags, "-o", outputFile, "./cmd/releasegate")
}

func zipRelease(file string) error {
	zipFilePath := filepath.Join(outputDirectory, fmt.Sprintf("releasegate-%s-%s-%s.zip", os.Getenv("GOOS"), resolveVersion(), os.Getenv("GOARCH")))

	a, err := os.Create(zipFilePath)
	if err != nil {
		return err
	}
	defer a.Close()

	return createFlatZip(a, file)
}

func createFlatZip(w io.Writer, files ...string) error {
	z := zip.NewWriter(w)
	for _, file := range files {
		src, err := os.Open(file)
		if err != nil {
			return err
		}
		info, err := src.Stat()
		if err != nil {
			return err
		}
		hdr, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		hdr.Name = filepath.Base(file) // Write only the base name in the header
		dst, err := z.CreateHeader(hdr)
		if err != nil {
			return err
		}
		_, err = io.Copy(dst, src)
		if err != nil {
			return err
		}
		src.Close()
	}
	return z.Close()
}
