package main

import (
	"regexp"
	"strings"
)

// splitDDLStatements drops comment lines and splits a migration file into
// statements.
func splitDDLStatements(content string) []string {
	var cleaned []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		cleaned = append(cleaned, line)
	}

	var result []string
	for _, stmt := range strings.Split(strings.Join(cleaned, "\n"), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt != "" {
			result = append(result, stmt)
		}
	}
	return result
}

var createPattern = regexp.MustCompile(`(?is)^\s*CREATE\s+(?:UNIQUE\s+)?(?:NULL_FILTERED\s+)?(TABLE|INDEX)\s+` + "`?" + `([A-Za-z_][A-Za-z0-9_]*)`)

// createdObject returns the kind and name created by a CREATE TABLE or
// CREATE INDEX statement.
func createdObject(stmt string) (kind, name string, ok bool) {
	m := createPattern.FindStringSubmatch(stmt)
	if m == nil {
		return "", "", false
	}
	return strings.ToUpper(m[1]), strings.ToLower(m[2]), true
}

// pendingStatements removes CREATE statements for objects the database
// already has, so rerunning a migration is a no-op.
func pendingStatements(statements, existing []string) []string {
	have := make(map[string]bool, len(existing))
	for _, stmt := range existing {
		if kind, name, ok := createdObject(stmt); ok {
			have[kind+" "+name] = true
		}
	}

	var pending []string
	for _, stmt := range statements {
		if kind, name, ok := createdObject(stmt); ok && have[kind+" "+name] {
			continue
		}
		pending = append(pending, stmt)
	}
	return pending
}
