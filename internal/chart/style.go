package chart

// StyleResolver derives theme-dependent draw options and performs full
// non-merging refreshes.
type StyleResolver struct {
	Title string

	tokens   TokenSource
	renderer Renderer
	store    *SeriesStore
	types    *SeriesTypeSwitch
	zoom     *ZoomController
}

// NewStyleResolver wires the resolver to its collaborators.
func NewStyleResolver(tokens TokenSource, r Renderer, store *SeriesStore, types *SeriesTypeSwitch, zoom *ZoomController) *StyleResolver {
	return &StyleResolver{
		Title:    DefaultTitle,
		tokens:   tokens,
		renderer: r,
		store:    store,
		types:    types,
		zoom:     zoom,
	}
}

// ComputeOptions reads the tokens fresh and builds the full configuration.
func (s *StyleResolver) ComputeOptions(size SizeContext) Options {
	return BuildOptions(s.Title, ResolveTokens(s.tokens), size, s.types.Current(), s.store.All())
}

// ApplyFullRefresh replaces every option on the renderer, then reissues the
// last requested window since the replacement resets the renderer's zoom.
func (s *StyleResolver) ApplyFullRefresh(size SizeContext) {
	s.renderer.SetOptions(s.ComputeOptions(size), true)
	s.zoom.Reapply()
}
