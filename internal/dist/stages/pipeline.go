package stages

import "github.com/newport-ds/ndsdist/internal/dist/models"

// Canonical returns the distribution pipeline in execution order. Each step
// reads what earlier steps left in the output root, so the order is fixed.
func Canonical() []models.StageDef {
	return models.NewPipeline().
		Add(models.StageCleanOutput, StageCleanOutput).
		Add(models.StageCopyRootFiles, StageCopyRootFiles).
		Add(models.StageCleanManifest, StageCleanManifest).
		Add(models.StageCopySCSS, StageCopySCSS).
		Add(models.StageCopySassLicense, StageCopySassLicense).
		Add(models.StageCopyIcons, StageCopyIcons).
		Add(models.StageCopyIconList, StageCopyIconList).
		Add(models.StageCopyFonts, StageCopyFonts).
		Add(models.StageCopyFontLicense, StageCopyFontLicense).
		Add(models.StageCopyImages, StageCopyImages).
		Add(models.StageCopyImagesLicense, StageCopyImagesLicense).
		Add(models.StageCopySwatches, StageCopySwatches).
		Add(models.StageCopyDesignTokens, StageCopyDesignTokens).
		Add(models.StageCopyComponentTokens, StageCopyComponentTokens).
		Add(models.StageValidateTokens, StageValidateTokens).
		Add(models.StageCompileStyles, StageCompileStyles).
		Add(models.StageMinifyStyles, StageMinifyStyles).
		Add(models.StageBannerCSS, StageBannerCSS).
		Add(models.StageBannerSCSS, StageBannerSCSS).
		Add(models.StageVerifyBanners, StageVerifyBanners).
		Add(models.StageReadme, StageReadme).
		Add(models.StageVerifyReadme, StageVerifyReadme).
		Add(models.StageRemoveReadmeTemplate, StageRemoveReadmeTemplate).
		Add(models.StageRemoveSwatches, StageRemoveSwatches).
		Add(models.StageRemoveDesignTokens, StageRemoveDesignTokens).
		Add(models.StageRemoveUI, StageRemoveUI).
		Add(models.StageRemoveSCSS, StageRemoveSCSS).
		Add(models.StageRemoveInternal, StageRemoveInternal).
		Add(models.StageRemovePNGIcons, StageRemovePNGIcons).
		Build()
}
