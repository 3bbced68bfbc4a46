package plink

import (
	"fmt"
	"strings"
)

// DominantTag is the allele-position suffix PLINK gives the heterozygote
// indicator column under additive+dominant recoding.
const DominantTag = "HET"

// SNPName is a decomposed variant column label.
type SNPName struct {
	// SNP is the bare variant identifier, e.g. rs12345.
	SNP string
	// Tag is the trailing label segment: the counted allele for an
	// additive dosage column, or DominantTag for a heterozygote column.
	Tag string
}

func (n SNPName) Dominant() bool {
	return n.Tag == DominantTag
}

// SplitSNPName decomposes a variant column label of the form
// `<variantID>_<allele>` or `<variantID>_HET`. A leading X prefix added by
// the loader to digit-leading identifiers is stripped. A label with no
// underscore separator is an input-format error, reported by name.
func SplitSNPName(label string) (SNPName, error) {
	s := label
	if len(s) > 1 && s[0] == labelPrefix && s[1] >= '0' && s[1] <= '9' {
		s = s[1:]
	}

	i := strings.LastIndex(s, "_")
	if i <= 0 || i == len(s)-1 {
		return SNPName{}, fmt.Errorf("plink: variant label %q is not of the form variantID_allele", label)
	}

	return SNPName{SNP: s[:i], Tag: s[i+1:]}, nil
}
