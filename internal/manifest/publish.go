package manifest

// DevelopmentFields are stripped from the published manifest.
var DevelopmentFields = []string{
	"scripts",
	"dependencies",
	"devDependencies",
	"optionalDependencies",
	"engines",
}

// Publishable returns the edit that turns the repository manifest into the
// one consumers install: the package is renamed to publicName and development
// fields plus the internal marker field are dropped.
func Publishable(publicName, marker string) func(*Record) error {
	return func(r *Record) error {
		if err := r.Set("name", publicName); err != nil {
			return err
		}
		for _, k := range DevelopmentFields {
			r.Delete(k)
		}
		if marker != "" {
			r.Delete(marker)
		}
		return nil
	}
}
