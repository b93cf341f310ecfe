package weatherfx

import (
	"fmt"

	"github.com/google/uuid"
)

type AssetId string

type TextureFormat uint32

const (
	TextureFormatR8Uint     TextureFormat = 0x00000003
	TextureFormatRGBA8Unorm TextureFormat = 0x00000012
)

// AssetServer keeps texture maps handed to the renderer. Assets stay alive
// until released; populations release theirs on dispose.
type AssetServer struct {
	textures map[AssetId]TextureAsset
	created  uint64
	released uint64
}

type TextureAsset struct {
	version uint
	texels  []uint8
	width   uint32
	height  uint32
	format  TextureFormat
	// Premultiplied is set when texel color channels are premultiplied by alpha.
	Premultiplied bool
}

func (t TextureAsset) Texels() []uint8        { return t.texels }
func (t TextureAsset) Size() (uint32, uint32) { return t.width, t.height }
func (t TextureAsset) Format() TextureFormat  { return t.format }

type AssetServerModule struct{}

func (AssetServerModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(NewAssetServer())
}

func NewAssetServer() *AssetServer {
	return &AssetServer{
		textures: make(map[AssetId]TextureAsset),
	}
}

func (server *AssetServer) CreateTexture(texels []uint8, texWidth uint32, texHeight uint32, format TextureFormat) AssetId {
	bpp := uint32(4)
	if format == TextureFormatR8Uint {
		bpp = 1
	}
	if uint32(len(texels)) != texWidth*texHeight*bpp {
		panic(fmt.Sprintf("texture %dx%d: got %d texels, want %d", texWidth, texHeight, len(texels), texWidth*texHeight*bpp))
	}

	id := makeAssetId()
	server.textures[id] = TextureAsset{
		version: 0,
		texels:  texels,
		width:   texWidth,
		height:  texHeight,
		format:  format,
	}
	server.created++
	return id
}

func (server *AssetServer) Texture(id AssetId) (TextureAsset, bool) {
	tex, ok := server.textures[id]
	return tex, ok
}

// ReleaseTexture drops a texture. Releasing an unknown id reports false.
func (server *AssetServer) ReleaseTexture(id AssetId) bool {
	if _, ok := server.textures[id]; !ok {
		return false
	}
	delete(server.textures, id)
	server.released++
	return true
}

// LiveTextures is the number of textures not yet released.
func (server *AssetServer) LiveTextures() int {
	return len(server.textures)
}

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}
