// Package build provides domain entities for build information.
package build

// Info holds build-time information injected via ldflags.
type Info struct {
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
}

// UserAgent returns the User-Agent sent to the catalog API.
func (i Info) UserAgent() string {
	v := i.Version
	if v == "" {
		v = "dev"
	}
	return "cardex/" + v
}

// Contributors returns the list of project contributors.
func Contributors() []string {
	return []string{"bnema"}
}

// RepoURL returns the GitHub repository URL.
func RepoURL() string {
	return "https://github.com/bnema/cardex"
}

// DataCredit credits the default catalog provider.
func DataCredit() string {
	return "Character data from rickandmortyapi.com"
}
