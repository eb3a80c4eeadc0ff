package depthtop

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
)

type AssetId string

// Content layer dimensions. Every window surface lands on one layer of a
// shared texture array, so all content is scaled to this size on load.
const (
	ContentLayerWidth  = 1024
	ContentLayerHeight = 1024
)

type TextureAsset struct {
	version uint
	texels  []uint8
	width   uint32
	height  uint32
}

type AssetServer struct {
	textures map[AssetId]TextureAsset
}

type AssetServerModule struct{}

func (AssetServerModule) Install(app *App, cmd *Commands) {
	app.addResources(&AssetServer{
		textures: make(map[AssetId]TextureAsset),
	})
}

// LoadWindowImage decodes a PNG and scales it onto a content layer.
func (server *AssetServer) LoadWindowImage(filename string) (AssetId, error) {
	file, err := os.Open(filename)
	if err != nil {
		return "", fmt.Errorf("open window image: %w", err)
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		return "", fmt.Errorf("decode window image %s: %w", filename, err)
	}

	rgba := image.NewRGBA(image.Rect(0, 0, ContentLayerWidth, ContentLayerHeight))
	xdraw.BiLinear.Scale(rgba, rgba.Bounds(), img, img.Bounds(), xdraw.Src, nil)

	id := makeAssetId()
	server.textures[id] = TextureAsset{
		version: 0,
		texels:  rgba.Pix,
		width:   ContentLayerWidth,
		height:  ContentLayerHeight,
	}
	return id, nil
}

// CreateSolidTexture makes a single-color content layer, used as the
// placeholder surface for windows with no image configured.
func (server *AssetServer) CreateSolidTexture(c color.RGBA) AssetId {
	rgba := image.NewRGBA(image.Rect(0, 0, ContentLayerWidth, ContentLayerHeight))
	for i := 0; i < len(rgba.Pix); i += 4 {
		rgba.Pix[i+0] = c.R
		rgba.Pix[i+1] = c.G
		rgba.Pix[i+2] = c.B
		rgba.Pix[i+3] = c.A
	}

	id := makeAssetId()
	server.textures[id] = TextureAsset{
		version: 0,
		texels:  rgba.Pix,
		width:   ContentLayerWidth,
		height:  ContentLayerHeight,
	}
	return id
}

func (server *AssetServer) Texture(id AssetId) (TextureAsset, bool) {
	tx, ok := server.textures[id]
	return tx, ok
}

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}
