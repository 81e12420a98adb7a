package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// promptRun asks for the folder to process and whether to do a dry run
// first. An empty folder answer means the current directory. dryRun is the
// answer used when the second question is left empty.
func promptRun(in io.Reader, out io.Writer, dryRun bool) (string, bool, error) {
	sc := bufio.NewScanner(in)

	fmt.Fprint(out, "Enter folder path to process (or press Enter for current directory): ")
	folder, err := readLine(sc)
	if err != nil {
		return "", false, err
	}
	if folder == "" {
		folder = "."
	}

	def := "y/N"
	if dryRun {
		def = "Y/n"
	}
	fmt.Fprintf(out, "Do you want to do a dry run first? (%s): ", def)
	answer, err := readLine(sc)
	if err != nil {
		return "", false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		dryRun = true
	case "n", "no":
		dryRun = false
	}
	fmt.Fprintln(out)
	return folder, dryRun, nil
}

// readLine returns the next trimmed line. EOF yields an empty answer.
func readLine(sc *bufio.Scanner) (string, error) {
	if sc.Scan() {
		return strings.TrimSpace(sc.Text()), nil
	}
	return "", sc.Err()
}
