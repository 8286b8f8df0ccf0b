package utils

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/mpapenbr/stagerace-classification-go/pkg/model"
)

// CheckSnapshotVersion accepts snapshots written by a version with the same
// major version which is not newer than current.
func CheckSnapshotVersion(snapshot, current string) error {
	snapshot, current = canonical(snapshot), canonical(current)
	if !semver.IsValid(snapshot) {
		return fmt.Errorf("%w: invalid version %q", model.ErrIncompatibleSnapshot, snapshot)
	}
	if semver.Major(snapshot) != semver.Major(current) {
		return fmt.Errorf("%w: snapshot %s, current %s",
			model.ErrIncompatibleSnapshot, snapshot, current)
	}
	if semver.Compare(snapshot, current) > 0 {
		return fmt.Errorf("%w: snapshot %s is newer than %s",
			model.ErrIncompatibleSnapshot, snapshot, current)
	}
	return nil
}

func canonical(v string) string {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
