package git

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// gitFileMode represents a Git file mode as an octal value, as printed by
// ls-tree and the --raw diff format.
type gitFileMode uint32

const (
	gitFileModeEmpty   gitFileMode = 0
	gitFileModeRegular gitFileMode = 0100644
	gitFileModeExec    gitFileMode = 0100755
	gitFileModeSymlink gitFileMode = 0120000
)

// IsFile returns true if the mode represents a regular file or symlink.
func (m gitFileMode) IsFile() bool {
	return m == gitFileModeRegular || m == gitFileModeExec || m == gitFileModeSymlink
}

// parseGitFileMode parses an octal file mode string (e.g. "100644", "120000", "000000").
func parseGitFileMode(s string) (gitFileMode, error) {
	if s == "" {
		return gitFileModeEmpty, nil
	}
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return gitFileModeEmpty, fmt.Errorf("parse file mode %q: %w", s, err)
	}
	return gitFileMode(v), nil
}

type lsTreeEntry struct {
	mode gitFileMode
	path string
}

// parseLsTree parses `git ls-tree -z` output:
// "<mode> SP <type> SP <object> TAB <path>" records terminated by NUL.
func parseLsTree(out []byte) ([]lsTreeEntry, error) {
	var entries []lsTreeEntry
	for _, rec := range bytes.Split(out, []byte{0x00}) {
		if len(rec) == 0 {
			continue
		}
		tab := bytes.IndexByte(rec, '\t')
		if tab == -1 {
			return nil, fmt.Errorf("unexpected git ls-tree record %q", string(rec))
		}
		fields := strings.Fields(string(rec[:tab]))
		if len(fields) < 3 {
			return nil, fmt.Errorf("unexpected git ls-tree meta %q", string(rec[:tab]))
		}
		mode, err := parseGitFileMode(fields[0])
		if err != nil {
			return nil, err
		}
		entries = append(entries, lsTreeEntry{mode: mode, path: string(rec[tab+1:])})
	}
	return entries, nil
}

type gitRawEntry struct {
	srcMode gitFileMode
	dstMode gitFileMode
	status  string // e.g. "M", "A", "D"
	path    string
}

// parseGitRawEntries parses NUL-delimited `--raw -z` diff output.
// Renames never appear because callers pass --no-renames.
func parseGitRawEntries(body []byte) ([]gitRawEntry, error) {
	i := 0
	for i < len(body) && (body[i] == '\n' || body[i] == '\r') {
		i++
	}

	entries := make([]gitRawEntry, 0, 16)

	for i < len(body) && body[i] == ':' {
		meta, ok := readUntilNUL(body, &i)
		if !ok {
			return nil, fmt.Errorf("unexpected git --raw format (missing NUL)")
		}

		fields := strings.Fields(string(meta))
		if len(fields) < 5 {
			return nil, fmt.Errorf("unexpected git --raw meta: %q", string(meta))
		}

		srcMode, err := parseGitFileMode(strings.TrimPrefix(fields[0], ":"))
		if err != nil {
			return nil, err
		}
		dstMode, err := parseGitFileMode(fields[1])
		if err != nil {
			return nil, err
		}

		path, ok := readUntilNUL(body, &i)
		if !ok {
			return nil, fmt.Errorf("unexpected git --raw format (missing path)")
		}

		entries = append(entries, gitRawEntry{
			srcMode: srcMode,
			dstMode: dstMode,
			status:  fields[len(fields)-1],
			path:    string(path),
		})
	}

	return entries, nil
}

// parseMessageRecords parses `git log --format=%x1e%H%x00%B` output.
func parseMessageRecords(out []byte) ([]CommitMessage, error) {
	var messages []CommitMessage
	for _, rec := range bytes.Split(out, []byte{0x1e}) {
		if len(rec) == 0 {
			continue
		}
		parts := bytes.SplitN(rec, []byte{0x00}, 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("unexpected git log record format")
		}
		messages = append(messages, CommitMessage{
			Revision: Revision(strings.TrimSpace(string(parts[0]))),
			// git log separates records with a newline after %B
			Text: strings.TrimSuffix(string(parts[1]), "\n"),
		})
	}
	return messages, nil
}

// parseCommitInfo parses `git show -s --format=%H%x00%cI%x00%an%x00%ae%x00%B`.
func parseCommitInfo(out []byte) (CommitInfo, error) {
	fields := bytes.SplitN(out, []byte{0x00}, 5)
	if len(fields) < 5 {
		return CommitInfo{}, fmt.Errorf("unexpected git show format")
	}
	when, err := time.Parse(time.RFC3339, strings.TrimSpace(string(fields[1])))
	if err != nil {
		return CommitInfo{}, fmt.Errorf("parse committer date: %w", err)
	}
	return CommitInfo{
		SHA:     Revision(strings.TrimSpace(string(fields[0]))),
		When:    when,
		Author:  AuthorInfo{Name: string(fields[2]), Email: string(fields[3])},
		Message: string(fields[4]),
	}, nil
}

func readUntilNUL(b []byte, i *int) ([]byte, bool) {
	if *i >= len(b) {
		return nil, false
	}
	j := bytes.IndexByte(b[*i:], 0)
	if j == -1 {
		return nil, false
	}
	start := *i
	end := *i + j
	*i = end + 1
	return b[start:end], true
}
