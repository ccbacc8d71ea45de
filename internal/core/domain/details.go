package domain

// ProviderChoice is one candidate record able to satisfy a dependency spec.
type ProviderChoice struct {
	Record *PackageRecord
	// Installed is set when the local system already has this provider.
	Installed bool
	// ViaReplaces marks a provider that only matches through its Replaces
	// list; shown as a warning, never chosen by the resolver.
	ViaReplaces bool
}

// EnrichedDependency pairs a dependency spec with its resolved providers.
type EnrichedDependency struct {
	Spec      DependencySpec
	Providers []ProviderChoice
}

// ReverseDependant is a package that references another via a dependency
// field, used for "needed by" views.
type ReverseDependant struct {
	Name     string
	Source   Source
	LinkType string // depends, makedepends or checkdepends
}

// PackageDetails is the fully enriched view of one package, produced for
// the info command.
type PackageDetails struct {
	Record           *PackageRecord
	InstalledVersion string // empty when not installed

	Depends      []EnrichedDependency
	MakeDepends  []EnrichedDependency
	CheckDepends []EnrichedDependency
	OptDepends   []EnrichedDependency

	// Dependants groups reverse dependants by the provided name they
	// reference (the package's own name first, then each provides entry).
	Dependants map[string][]ReverseDependant
}
