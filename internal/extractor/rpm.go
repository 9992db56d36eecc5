package extractor

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sassoftware/go-rpmutils"
	"github.com/sirupsen/logrus"

	"github.com/yeager/rpmcheck/internal/models"
)

// RPM dependency sense flags for version comparisons.
const (
	rpmSenseLess    = 0x02
	rpmSenseGreater = 0x04
	rpmSenseEqual   = 0x08
)

// extractRPM reads the header and file manifest of a binary RPM. An
// unreadable or corrupt header is the only fatal condition.
func (e *Extractor) extractRPM(path string) (*models.BinaryFacts, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rpm, err := rpmutils.ReadRpm(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read RPM header: %w", err)
	}

	facts := &models.BinaryFacts{
		Name:    headerField(rpm, rpmutils.NAME),
		Version: headerField(rpm, rpmutils.VERSION),
		Release: headerField(rpm, rpmutils.RELEASE),
		Arch:    headerField(rpm, rpmutils.ARCH),
		Summary: headerField(rpm, rpmutils.SUMMARY),
		License: headerField(rpm, rpmutils.LICENSE),
		Group:   headerField(rpm, rpmutils.GROUP),
		URL:     headerField(rpm, rpmutils.URL),
	}

	facts.Requires = binaryRequires(rpm)
	facts.Files = binaryFiles(rpm)
	facts.Scriptlets = binaryScriptlets(rpm)

	// ReadRpm leaves the stream positioned at the compressed payload.
	facts.Payload = probePayload(rpm, f)

	facts.Signature = e.signatureFacts(path)

	return facts, nil
}

// headerField reads a string tag, distinguishing absent from empty.
// RPM writes "(none)" style placeholders in query output, not in the
// header itself, so presence is just tag presence.
func headerField(rpm *rpmutils.Rpm, tag int) models.Field {
	val, err := rpm.Header.Get(tag)
	if err != nil {
		return models.Field{}
	}
	return models.Field{Value: tagString(val), Defined: true}
}

// tagString coerces a header tag value to a string, tolerating the
// slice and byte forms the header codec may return.
func tagString(val interface{}) string {
	switch v := val.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case []string:
		if len(v) > 0 {
			return v[0]
		}
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// binaryRequires joins REQUIRENAME/REQUIREFLAGS/REQUIREVERSION triples
// into dependency expressions. Internal rpmlib() capabilities are
// noise for policy purposes and are skipped.
func binaryRequires(rpm *rpmutils.Rpm) []models.Dependency {
	names, err := rpm.Header.GetStrings(rpmutils.REQUIRENAME)
	if err != nil {
		return nil
	}
	versions, _ := rpm.Header.GetStrings(rpmutils.REQUIREVERSION)
	flags := tagInts(rpm, rpmutils.REQUIREFLAGS)

	var deps []models.Dependency
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || strings.HasPrefix(name, "rpmlib(") {
			continue
		}
		dep := models.Dependency{Raw: name, Name: name}
		if i < len(flags) {
			dep.Comparator = senseComparator(flags[i])
		}
		if dep.Comparator != "" && i < len(versions) && versions[i] != "" {
			dep.Version = versions[i]
			dep.Raw = fmt.Sprintf("%s %s %s", dep.Name, dep.Comparator, dep.Version)
		}
		deps = append(deps, dep)
	}
	return deps
}

// senseComparator maps RPMSENSE flag bits to a comparator string.
func senseComparator(flags int64) string {
	var cmp string
	if flags&rpmSenseLess != 0 {
		cmp = "<"
	}
	if flags&rpmSenseGreater != 0 {
		cmp = ">"
	}
	if flags&rpmSenseEqual != 0 {
		cmp += "="
	}
	return cmp
}

// binaryFiles reads the file manifest with mode and ownership metadata.
func binaryFiles(rpm *rpmutils.Rpm) []models.FileEntry {
	infos, err := rpm.Header.GetFiles()
	if err != nil {
		logrus.Debugf("RPM has no readable file manifest: %v", err)
		return nil
	}
	files := make([]models.FileEntry, 0, len(infos))
	for _, fi := range infos {
		files = append(files, models.FileEntry{
			Path:  fi.Name(),
			Mode:  fi.Mode(),
			Owner: fi.UserName(),
			Group: fi.GroupName(),
			Size:  fi.Size(),
		})
	}
	return files
}

// binaryScriptlets reports which install-time scriptlets the package
// declares.
func binaryScriptlets(rpm *rpmutils.Rpm) []string {
	var present []string
	for _, s := range []struct {
		tag  int
		name string
	}{
		{rpmutils.PREIN, "pre"},
		{rpmutils.POSTIN, "post"},
		{rpmutils.PREUN, "preun"},
		{rpmutils.POSTUN, "postun"},
	} {
		if rpm.Header.HasTag(s.tag) {
			present = append(present, s.name)
		}
	}
	return present
}

// tagInts reads an integer-array tag, tolerating the width the codec
// happens to decode.
func tagInts(rpm *rpmutils.Rpm, tag int) []int64 {
	val, err := rpm.Header.Get(tag)
	if err != nil {
		return nil
	}
	switch v := val.(type) {
	case []int64:
		return v
	case []int32:
		out := make([]int64, len(v))
		for i, n := range v {
			out[i] = int64(n)
		}
		return out
	case []int:
		out := make([]int64, len(v))
		for i, n := range v {
			out[i] = int64(n)
		}
		return out
	case []uint32:
		out := make([]int64, len(v))
		for i, n := range v {
			out[i] = int64(n)
		}
		return out
	default:
		return nil
	}
}

// signatureFacts reports signature presence and, when a keyring is
// configured, whether the signature verifies against it. Verification
// failures are facts about the package, never fatal.
func (e *Extractor) signatureFacts(path string) models.SignatureFacts {
	f, err := os.Open(path)
	if err != nil {
		return models.SignatureFacts{KeyringUsed: e.Keyring != nil}
	}
	defer f.Close()

	_, sigs, verifyErr := rpmutils.Verify(f, e.Keyring)
	if verifyErr != nil && e.Keyring != nil {
		logrus.Debugf("signature check for %s: %v", path, verifyErr)
		// Verify reports no signatures at all when the keyring cannot
		// match them. Re-read without the keyring so presence and key
		// id survive; Verified stays false.
		if _, serr := f.Seek(0, io.SeekStart); serr == nil {
			_, sigs, _ = rpmutils.Verify(f, nil)
		}
	}
	return signatureFromSigs(sigs, verifyErr, e.Keyring != nil)
}

// signatureFromSigs folds Verify results into signature facts. Any
// verification error leaves Verified false without discarding the
// presence facts.
func signatureFromSigs(sigs []*rpmutils.Signature, verifyErr error, keyringUsed bool) models.SignatureFacts {
	facts := models.SignatureFacts{KeyringUsed: keyringUsed}
	for _, sig := range sigs {
		facts.Present = true
		if sig.KeyId != 0 {
			facts.KeyID = fmt.Sprintf("%016x", sig.KeyId)
		}
		if sig.Signer == nil || verifyErr != nil {
			continue
		}
		facts.Verified = true
		for name := range sig.Signer.Identities {
			facts.Signer = name
			break
		}
	}
	return facts
}
