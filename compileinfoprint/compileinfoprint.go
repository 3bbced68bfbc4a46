// compileinfoprint is imported for the side effect of printing build
// provenance to os.Stderr.
package compileinfoprint

import "github.com/carlsonlab/ordscan/compileinfo"

func init() {
	compileinfo.PrintToStdErr()
}
